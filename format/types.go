package format

import "strings"

type (
	// DataType is an evio wire type code.
	DataType uint8
	// StructureKind identifies which of the three header layouts a structure uses.
	StructureKind uint8
	// CompressionType identifies the block payload compression algorithm.
	CompressionType uint8
	// EventType is the 4-bit event classification stored in block header bit info.
	EventType uint8
)

const (
	Unknown32   DataType = 0x0  // Unknown32 represents 32-bit words of unknown type.
	Uint32      DataType = 0x1  // Uint32 represents unsigned 32-bit integers.
	Float32     DataType = 0x2  // Float32 represents IEEE 754 single precision floats.
	CharStar8   DataType = 0x3  // CharStar8 represents an array of NUL-terminated ASCII strings.
	Short16     DataType = 0x4  // Short16 represents signed 16-bit integers.
	Ushort16    DataType = 0x5  // Ushort16 represents unsigned 16-bit integers.
	Char8       DataType = 0x6  // Char8 represents signed bytes.
	Uchar8      DataType = 0x7  // Uchar8 represents unsigned bytes.
	Double64    DataType = 0x8  // Double64 represents IEEE 754 double precision floats.
	Long64      DataType = 0x9  // Long64 represents signed 64-bit integers.
	Ulong64     DataType = 0xa  // Ulong64 represents unsigned 64-bit integers.
	Int32       DataType = 0xb  // Int32 represents signed 32-bit integers.
	TagSegment  DataType = 0xc  // TagSegment represents a container of tagsegments.
	AlsoSegment DataType = 0xd  // AlsoSegment is the 4-bit alias of Segment.
	AlsoBank    DataType = 0xe  // AlsoBank is the 4-bit alias of Bank.
	Composite   DataType = 0xf  // Composite represents format-string driven records.
	Bank        DataType = 0x10 // Bank represents a container of banks.
	Segment     DataType = 0x20 // Segment represents a container of segments.
	Hollerit    DataType = 0x21 // Hollerit represents packed characters inside composite data.
	NValue      DataType = 0x22 // NValue represents a repeat count read from composite data.

	KindBank       StructureKind = 0x1 // KindBank is a 2-word header structure.
	KindSegment    StructureKind = 0x2 // KindSegment is a 1-word header structure with 8-bit tag.
	KindTagSegment StructureKind = 0x3 // KindTagSegment is a 1-word header structure with 12-bit tag.

	CompressionNone CompressionType = 0x0 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x1 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x2 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x3 // CompressionLZ4 represents LZ4 compression.

	EventRocRaw              EventType = 0x0
	EventPhysics             EventType = 0x1
	EventPartialPhysics      EventType = 0x2
	EventDisentangledPhysics EventType = 0x3
	EventUser                EventType = 0x4
	EventControl             EventType = 0x5
	EventOther               EventType = 0xf
)

var dataTypeNames = map[DataType]string{
	Unknown32:   "UNKNOWN32",
	Uint32:      "UINT32",
	Float32:     "FLOAT32",
	CharStar8:   "CHARSTAR8",
	Short16:     "SHORT16",
	Ushort16:    "USHORT16",
	Char8:       "CHAR8",
	Uchar8:      "UCHAR8",
	Double64:    "DOUBLE64",
	Long64:      "LONG64",
	Ulong64:     "ULONG64",
	Int32:       "INT32",
	TagSegment:  "TAGSEGMENT",
	AlsoSegment: "SEGMENT",
	AlsoBank:    "BANK",
	Composite:   "COMPOSITE",
	Bank:        "BANK",
	Segment:     "SEGMENT",
	Hollerit:    "HOLLERIT",
	NValue:      "NVALUE",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}

	return "Unknown"
}

// IsValid reports whether t is a known wire code.
func (t DataType) IsValid() bool {
	_, ok := dataTypeNames[t]
	return ok
}

// IsStructure reports whether t holds evio structures rather than data.
func (t DataType) IsStructure() bool {
	switch t { //nolint: exhaustive
	case Bank, AlsoBank, Segment, AlsoSegment, TagSegment:
		return true
	default:
		return false
	}
}

// IsBank reports whether t is Bank or its alias.
func (t DataType) IsBank() bool { return t == Bank || t == AlsoBank }

// IsSegment reports whether t is Segment or its alias.
func (t DataType) IsSegment() bool { return t == Segment || t == AlsoSegment }

// IsTagSegment reports whether t is TagSegment.
func (t DataType) IsTagSegment() bool { return t == TagSegment }

// ChildKind returns the structure kind held by a container type.
// It returns false for leaf types.
func (t DataType) ChildKind() (StructureKind, bool) {
	switch {
	case t.IsBank():
		return KindBank, true
	case t.IsSegment():
		return KindSegment, true
	case t.IsTagSegment():
		return KindTagSegment, true
	default:
		return 0, false
	}
}

// ElementSize returns the byte width of one element of t.
// Variable-size and container types return 0.
func (t DataType) ElementSize() int {
	switch t { //nolint: exhaustive
	case Char8, Uchar8:
		return 1
	case Short16, Ushort16:
		return 2
	case Unknown32, Uint32, Int32, Float32, Hollerit, NValue:
		return 4
	case Double64, Long64, Ulong64:
		return 8
	default:
		return 0
	}
}

// Family returns the canonical type of the append-compatible group t belongs to.
// Signed and unsigned variants of one width share a family; Float32, Double64,
// CharStar8 and Composite each stand alone.
func (t DataType) Family() DataType {
	switch t { //nolint: exhaustive
	case Int32, Uint32:
		return Int32
	case Short16, Ushort16:
		return Short16
	case Long64, Ulong64:
		return Long64
	case Char8, Uchar8:
		return Char8
	default:
		return t
	}
}

// WireCode4 returns the code written into the 4-bit type field of a tagsegment header.
func (t DataType) WireCode4() uint8 {
	switch t { //nolint: exhaustive
	case Bank:
		return uint8(AlsoBank)
	case Segment:
		return uint8(AlsoSegment)
	default:
		return uint8(t) & 0xf
	}
}

// FromCode converts a raw 6-bit header code into a DataType.
func FromCode(code uint8) (DataType, bool) {
	t := DataType(code)
	return t, t.IsValid()
}

// ParseDataType converts a type name such as "int32" or "BANK" into a DataType.
func ParseDataType(name string) (DataType, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch upper {
	case "BANK":
		return Bank, true
	case "SEGMENT":
		return Segment, true
	}

	for t, n := range dataTypeNames {
		if n == upper {
			return t, true
		}
	}

	return 0, false
}

func (k StructureKind) String() string {
	switch k {
	case KindBank:
		return "Bank"
	case KindSegment:
		return "Segment"
	case KindTagSegment:
		return "TagSegment"
	default:
		return "Unknown"
	}
}

// HeaderWords returns the header length in 32-bit words.
func (k StructureKind) HeaderWords() int {
	if k == KindBank {
		return 2
	}

	return 1
}

// ContainerType returns the DataType a parent uses to hold children of kind k.
func (k StructureKind) ContainerType() DataType {
	switch k {
	case KindBank:
		return Bank
	case KindSegment:
		return Segment
	case KindTagSegment:
		return TagSegment
	default:
		return Unknown32
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType converts "none", "zstd", "s2" or "lz4" into a CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return CompressionNone, false
	}
}

func (e EventType) String() string {
	switch e {
	case EventRocRaw:
		return "ROC_RAW"
	case EventPhysics:
		return "PHYSICS"
	case EventPartialPhysics:
		return "PARTIAL_PHYSICS"
	case EventDisentangledPhysics:
		return "DISENTANGLED_PHYSICS"
	case EventUser:
		return "USER"
	case EventControl:
		return "CONTROL"
	case EventOther:
		return "OTHER"
	default:
		return "Unknown"
	}
}
