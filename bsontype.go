package bson

// BsonType is the one-byte wire tag identifying a Value's variant
// (spec.md §3.1).
type BsonType byte

// BSON type tags, exactly as they appear on the wire.
const (
	TypeDouble              BsonType = 0x01
	TypeString              BsonType = 0x02
	TypeDocument            BsonType = 0x03
	TypeArray               BsonType = 0x04
	TypeBinary               BsonType = 0x05
	TypeUndefined            BsonType = 0x06
	TypeObjectId             BsonType = 0x07
	TypeBoolean              BsonType = 0x08
	TypeDateTime             BsonType = 0x09
	TypeNull                 BsonType = 0x0A
	TypeRegularExpression    BsonType = 0x0B
	TypeDbPointer            BsonType = 0x0C
	TypeJavaScript           BsonType = 0x0D
	TypeSymbol               BsonType = 0x0E
	TypeJavaScriptWithScope  BsonType = 0x0F
	TypeInt32                BsonType = 0x10
	TypeTimestamp            BsonType = 0x11
	TypeInt64                BsonType = 0x12
	TypeDecimal128           BsonType = 0x13
	TypeMinKey               BsonType = 0xFF
	TypeMaxKey               BsonType = 0x7F
)

func (t BsonType) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeObjectId:
		return "objectId"
	case TypeBoolean:
		return "bool"
	case TypeDateTime:
		return "date"
	case TypeNull:
		return "null"
	case TypeRegularExpression:
		return "regex"
	case TypeDbPointer:
		return "dbPointer"
	case TypeJavaScript:
		return "javascript"
	case TypeSymbol:
		return "symbol"
	case TypeJavaScriptWithScope:
		return "javascriptWithScope"
	case TypeInt32:
		return "int32"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "int64"
	case TypeDecimal128:
		return "decimal128"
	case TypeMinKey:
		return "minKey"
	case TypeMaxKey:
		return "maxKey"
	default:
		return "unknown"
	}
}

// BinarySubtype is the subtype byte of a Binary value (spec.md §3.1).
type BinarySubtype byte

const (
	SubtypeGeneric     BinarySubtype = 0x00
	SubtypeFunction    BinarySubtype = 0x01
	SubtypeOldBinary   BinarySubtype = 0x02
	SubtypeUuidLegacy  BinarySubtype = 0x03
	SubtypeUuidStandard BinarySubtype = 0x04
	SubtypeMd5         BinarySubtype = 0x05
	SubtypeEncrypted   BinarySubtype = 0x06
	SubtypeColumn      BinarySubtype = 0x07
	SubtypeUserDefined BinarySubtype = 0x80
)
