package loader

import (
	"encoding/binary"
	"math"
)

// The types below describe a small studio model that mdlFile serializes into the binary layout
// the parser reads.

type testBone struct {
	name   string
	parent int
	value  [6]float32
	scale  [6]float32
}

type testController struct {
	bone, typ  int
	start, end float32
	channel    int
}

type testEvent struct {
	frame, event, typ int
	options           string
}

// testChannels holds raw values per blend, bone and channel. A nil slice is an unanimated channel.
type testChannels [][][6][]int16

type testSequence struct {
	label     string
	fps       float32
	flags     int
	numFrames int
	group     int
	bbMin     [3]float32
	bbMax     [3]float32
	events    []testEvent
	anim      testChannels
	numBlends int // overrides len(anim) when non-zero
}

type testModel struct {
	name        string
	version     int
	bones       []testBone
	controllers []testController
	sequences   []testSequence
}

type byteWriter struct {
	buf []byte
}

func (w *byteWriter) grow(n int) int {
	off := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)
	return off
}

func (w *byteWriter) putI32(off, v int) {
	binary.LittleEndian.PutUint32(w.buf[off:], uint32(int32(v)))
}

func (w *byteWriter) putU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(w.buf[off:], v)
}

func (w *byteWriter) putF32(off int, v float32) {
	binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(v))
}

func (w *byteWriter) putStr(off int, s string) {
	copy(w.buf[off:], s)
}

// encodeRun encodes values as one run, storing only the values before a trailing repeat.
func encodeRun(values []int16) []byte {
	valid := len(values)
	for valid > 1 && values[valid-1] == values[valid-2] {
		valid--
	}
	out := make([]byte, 2+valid*2)
	out[0], out[1] = byte(valid), byte(len(values))
	for i := 0; i < valid; i++ {
		binary.LittleEndian.PutUint16(out[2+i*2:], uint16(values[i]))
	}
	return out
}

// writeAnim appends a sequence's animation block and returns its offset.
func writeAnim(w *byteWriter, numBones int, anim testChannels) int {
	start := w.grow(len(anim) * numBones * studioAnimSize)
	for b, bones := range anim {
		for bi, channels := range bones {
			animOff := start + (b*numBones+bi)*studioAnimSize
			for j, values := range channels {
				if values == nil {
					continue
				}
				run := encodeRun(values)
				p := w.grow(len(run))
				copy(w.buf[p:], run)
				w.putU16(animOff+j*2, uint16(p-animOff))
			}
		}
	}
	return start
}

// mdlFile serializes m into a main file and any external sequence group files.
func (m testModel) mdlFile() ([]byte, map[int][]byte) {
	w := &byteWriter{}
	w.grow(studioHeaderSize)
	w.putStr(0, studioHeaderID)
	w.putI32(4, m.version)
	if m.version == 0 {
		w.putI32(4, studioVersion)
	}
	w.putStr(8, m.name)

	numGroups := 1
	for _, s := range m.sequences {
		numGroups = max(numGroups, s.group+1)
	}

	boneIndex := w.grow(len(m.bones) * studioBoneSize)
	for i, b := range m.bones {
		off := boneIndex + i*studioBoneSize
		w.putStr(off, b.name)
		w.putI32(off+32, b.parent)
		for j := 0; j < 6; j++ {
			w.putI32(off+40+j*4, -1)
			w.putF32(off+64+j*4, b.value[j])
			w.putF32(off+88+j*4, b.scale[j])
		}
	}

	ctrlIndex := w.grow(len(m.controllers) * studioBoneControlSize)
	for i, c := range m.controllers {
		off := ctrlIndex + i*studioBoneControlSize
		w.putI32(off, c.bone)
		w.putI32(off+4, c.typ)
		w.putF32(off+8, c.start)
		w.putF32(off+12, c.end)
		w.putI32(off+20, c.channel)
	}

	groupIndex := w.grow(numGroups * studioSeqGroupSize)
	seqIndex := w.grow(len(m.sequences) * studioSeqDescSize)

	groups := make(map[int]*byteWriter)
	for i, s := range m.sequences {
		off := seqIndex + i*studioSeqDescSize
		numBlends := s.numBlends
		if numBlends == 0 {
			numBlends = len(s.anim)
		}
		w.putStr(off, s.label)
		w.putF32(off+32, s.fps)
		w.putI32(off+36, s.flags)
		w.putI32(off+48, len(s.events))
		w.putI32(off+56, s.numFrames)
		for j := 0; j < 3; j++ {
			w.putF32(off+96+j*4, s.bbMin[j])
			w.putF32(off+108+j*4, s.bbMax[j])
		}
		w.putI32(off+120, numBlends)
		w.putI32(off+156, s.group)

		eventIndex := w.grow(len(s.events) * studioEventSize)
		w.putI32(off+52, eventIndex)
		for e, ev := range s.events {
			eo := eventIndex + e*studioEventSize
			w.putI32(eo, ev.frame)
			w.putI32(eo+4, ev.event)
			w.putI32(eo+8, ev.typ)
			w.putStr(eo+12, ev.options)
		}

		target := w
		if s.group > 0 {
			g, ok := groups[s.group]
			if !ok {
				g = &byteWriter{}
				g.grow(76)
				g.putStr(0, sequenceGroupHeaderID)
				g.putI32(4, studioVersion)
				groups[s.group] = g
			}
			target = g
		}
		w.putI32(off+124, writeAnim(target, len(m.bones), s.anim))
	}

	w.putI32(72, len(w.buf))
	w.putI32(140, len(m.bones))
	w.putI32(144, boneIndex)
	w.putI32(148, len(m.controllers))
	w.putI32(152, ctrlIndex)
	w.putI32(164, len(m.sequences))
	w.putI32(168, seqIndex)
	w.putI32(172, numGroups)
	w.putI32(176, groupIndex)

	out := make(map[int][]byte, len(groups))
	for i, g := range groups {
		out[i] = g.buf
	}
	return w.buf, out
}

// staticChannels returns one blend where no bone has animated channels.
func staticChannels(numBones int) testChannels {
	return testChannels{make([][6][]int16, numBones)}
}
