package loader

// Binary layout of the studio model format (version 10). Offsets are relative to the start of
// the enclosing record.
const (
	studioHeaderID         = "IDST"
	sequenceGroupHeaderID  = "IDSQ"
	studioVersion          = 10
	studioHeaderSize       = 244
	sequenceGroupFileExt   = ".mdl"
	studioBoneSize         = 112
	studioBoneControlSize  = 24
	studioSeqDescSize      = 176
	studioSeqGroupSize     = 104
	studioEventSize        = 76
	studioAnimSize         = 12
	studioNameSize         = 32
	studioHeaderNameSize   = 64
	studioEventOptionsSize = 64
)

// studioHeader holds the fields of the main file header the loader consumes.
type studioHeader struct {
	name                string
	length              int
	numBones            int
	boneIndex           int
	numBoneControllers  int
	boneControllerIndex int
	numSeq              int
	seqIndex            int
	numSeqGroups        int
	seqGroupIndex       int
}

// studioBone is one raw bone record.
type studioBone struct {
	name   string
	parent int
	flags  int
	value  [6]float32
	scale  [6]float32
}

// studioBoneController is one raw bone controller record.
type studioBoneController struct {
	bone    int
	typ     int
	start   float32
	end     float32
	rest    int
	channel int
}

// studioSeqDesc holds the sequence descriptor fields the loader consumes.
type studioSeqDesc struct {
	label      string
	fps        float32
	flags      int
	numEvents  int
	eventIndex int
	numFrames  int
	bbMin      [3]float32
	bbMax      [3]float32
	numBlends  int
	animIndex  int
	seqGroup   int
}

// studioEvent is one raw timeline event record.
type studioEvent struct {
	frame   int
	event   int
	typ     int
	options string
}
