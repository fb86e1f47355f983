package loader

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// sequenceGroupSource returns the raw bytes of external sequence group file index (1-based).
type sequenceGroupSource func(index int) ([]byte, error)

// mdlParser turns the bytes of a studio model file into a studio.StudioModel.
type mdlParser struct {
	name   string
	data   []byte
	groups sequenceGroupSource

	groupData map[int][]byte

	header      studioHeader
	rawBones    []studioBone
	bones       []studio.Bone
	controllers []studio.BoneController
	sequences   []studio.Sequence
}

func newMDLParser(name string, data []byte, groups sequenceGroupSource) *mdlParser {
	return &mdlParser{
		name:      name,
		data:      data,
		groups:    groups,
		groupData: make(map[int][]byte),
	}
}

// parse decodes the header, skeleton, bone controllers and every sequence.
func (p *mdlParser) parse() (studio.StudioModel, error) {
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	if err := p.parseBones(); err != nil {
		return nil, err
	}
	if err := p.parseBoneControllers(); err != nil {
		return nil, err
	}
	if err := p.parseSequences(); err != nil {
		return nil, err
	}

	name := common.Coalesce(p.header.name, p.name)
	m, err := studio.NewStudioModel(
		studio.WithName(name),
		studio.WithBones(p.bones),
		studio.WithBoneControllers(p.controllers),
		studio.WithSequences(p.sequences),
	)
	if err != nil {
		return nil, fmt.Errorf("mdl: %s: %w", p.name, err)
	}
	return m, nil
}

func (p *mdlParser) parseHeader() error {
	if len(p.data) < studioHeaderSize {
		return fmt.Errorf("mdl: %s: file of %d bytes is shorter than the %d byte header", p.name, len(p.data), studioHeaderSize)
	}
	r := newMDLReader(p.data)
	if id := r.readStr(4); id != studioHeaderID {
		return fmt.Errorf("mdl: %s: bad magic %q, want %q", p.name, id, studioHeaderID)
	}
	if v := r.readI32(); v != studioVersion {
		return fmt.Errorf("mdl: %s: unsupported version %d, want %d", p.name, v, studioVersion)
	}

	h := &p.header
	h.name = r.readStr(studioHeaderNameSize)
	h.length = r.readI32()
	r.seek(140)
	h.numBones = r.readI32()
	h.boneIndex = r.readI32()
	h.numBoneControllers = r.readI32()
	h.boneControllerIndex = r.readI32()
	r.skip(8) // hitboxes
	h.numSeq = r.readI32()
	h.seqIndex = r.readI32()
	h.numSeqGroups = r.readI32()
	h.seqGroupIndex = r.readI32()
	if r.err != nil {
		return fmt.Errorf("mdl: %s: header: %w", p.name, r.err)
	}

	checks := []struct {
		what             string
		count, off, size int
	}{
		{"bone", h.numBones, h.boneIndex, studioBoneSize},
		{"bone controller", h.numBoneControllers, h.boneControllerIndex, studioBoneControlSize},
		{"sequence", h.numSeq, h.seqIndex, studioSeqDescSize},
		{"sequence group", h.numSeqGroups, h.seqGroupIndex, studioSeqGroupSize},
	}
	for _, c := range checks {
		if err := r.checkTable(c.what, c.count, c.off, c.size); err != nil {
			return fmt.Errorf("mdl: %s: %w", p.name, err)
		}
	}
	return nil
}

func (p *mdlParser) parseBones() error {
	r := newMDLReader(p.data)
	p.rawBones = make([]studioBone, p.header.numBones)
	p.bones = make([]studio.Bone, p.header.numBones)

	for i := range p.rawBones {
		r.seek(p.header.boneIndex + i*studioBoneSize)
		b := &p.rawBones[i]
		b.name = r.readStr(studioNameSize)
		b.parent = r.readI32()
		b.flags = r.readI32()
		r.skip(6 * 4) // per-axis controller links, rebuilt from the controller table
		for j := range b.value {
			b.value[j] = r.readF32()
		}
		for j := range b.scale {
			b.scale[j] = r.readF32()
		}

		p.bones[i] = studio.Bone{
			Index:         i,
			ParentIndex:   b.parent,
			Name:          b.name,
			LocalPosition: mgl32.Vec3{b.value[0], b.value[1], b.value[2]},
			LocalRotation: common.QuatFromEuler(mgl32.Vec3{b.value[3], b.value[4], b.value[5]}),
		}
	}
	if r.err != nil {
		return fmt.Errorf("mdl: %s: bones: %w", p.name, r.err)
	}
	return nil
}

func (p *mdlParser) parseBoneControllers() error {
	r := newMDLReader(p.data)
	p.controllers = make([]studio.BoneController, p.header.numBoneControllers)

	for i := range p.controllers {
		r.seek(p.header.boneControllerIndex + i*studioBoneControlSize)
		raw := studioBoneController{
			bone:    r.readI32(),
			typ:     r.readI32(),
			start:   r.readF32(),
			end:     r.readF32(),
			rest:    r.readI32(),
			channel: r.readI32(),
		}
		if r.err != nil {
			return fmt.Errorf("mdl: %s: bone controllers: %w", p.name, r.err)
		}

		c, err := studio.ControllerFromFlags(i, raw.bone, raw.typ, raw.start, raw.end)
		if err != nil {
			return fmt.Errorf("mdl: %s: bone controller %d: %w", p.name, i, err)
		}
		c.IsMouth = raw.channel == studio.MouthControllerIndex
		p.controllers[i] = c
	}
	return nil
}

func (p *mdlParser) parseSequences() error {
	p.sequences = make([]studio.Sequence, p.header.numSeq)
	for i := range p.sequences {
		desc, err := p.readSeqDesc(i)
		if err != nil {
			return err
		}
		seq, err := p.buildSequence(i, desc)
		if err != nil {
			return err
		}
		p.sequences[i] = seq
	}
	return nil
}

func (p *mdlParser) readSeqDesc(i int) (studioSeqDesc, error) {
	base := p.header.seqIndex + i*studioSeqDescSize
	r := newMDLReader(p.data).seek(base)

	var d studioSeqDesc
	d.label = r.readStr(studioNameSize)
	d.fps = r.readF32()
	d.flags = r.readI32()
	r.seek(base + 48)
	d.numEvents = r.readI32()
	d.eventIndex = r.readI32()
	d.numFrames = r.readI32()
	r.seek(base + 96)
	d.bbMin = r.readVec3()
	d.bbMax = r.readVec3()
	d.numBlends = r.readI32()
	d.animIndex = r.readI32()
	r.seek(base + 156)
	d.seqGroup = r.readI32()
	if r.err != nil {
		return d, fmt.Errorf("mdl: %s: sequence %d: %w", p.name, i, r.err)
	}
	return d, nil
}

func (p *mdlParser) buildSequence(i int, d studioSeqDesc) (studio.Sequence, error) {
	seq := studio.Sequence{
		Index:     i,
		Name:      d.label,
		FPS:       d.fps,
		NumFrames: max(d.numFrames, 1),
		Looping:   d.flags&studio.SequenceLooping != 0,
		BBMin:     mgl32.Vec3(d.bbMin),
		BBMax:     mgl32.Vec3(d.bbMax),
	}

	switch d.numBlends {
	case 1, 2, 4:
	default:
		return seq, fmt.Errorf("mdl: %s: sequence %q: %w", p.name, d.label,
			studio.NewConfigurationError("%d blends, want 1, 2 or 4", d.numBlends))
	}

	animData, err := p.sequenceGroupData(d.seqGroup)
	if err != nil {
		return seq, fmt.Errorf("mdl: %s: sequence %q: %w", p.name, d.label, err)
	}

	seq.Tracks = make([]studio.Track, d.numBlends)
	for b := range seq.Tracks {
		base := d.animIndex + b*len(p.rawBones)*studioAnimSize
		track, err := p.decodeTrack(animData, base, seq.NumFrames)
		if err != nil {
			return seq, fmt.Errorf("mdl: %s: sequence %q blend %d: %w", p.name, d.label, b, err)
		}
		seq.Tracks[b] = track
	}

	events, err := p.readEvents(d)
	if err != nil {
		return seq, err
	}
	seq.Events = events
	return seq, nil
}

// decodeTrack expands one blend's compressed channels into per-frame keys for every bone.
func (p *mdlParser) decodeTrack(data []byte, base, numFrames int) (studio.Track, error) {
	r := newMDLReader(data)
	if err := r.checkTable("animation", len(p.rawBones), base, studioAnimSize); err != nil {
		return studio.Track{}, err
	}

	track := studio.Track{Bones: make([]studio.BoneKeys, len(p.rawBones))}
	for bi := range p.rawBones {
		bone := &p.rawBones[bi]
		animOff := base + bi*studioAnimSize
		r.seek(animOff)
		var offsets [6]uint16
		for j := range offsets {
			offsets[j] = r.readU16()
		}

		keys := studio.BoneKeys{
			Positions: make([]mgl32.Vec3, numFrames),
			Rotations: make([]mgl32.Quat, numFrames),
		}
		for f := 0; f < numFrames; f++ {
			var v [6]float32
			for j := range v {
				v[j] = bone.value[j]
				if offsets[j] == 0 {
					continue
				}
				raw, err := decodeAnimValue(data, animOff+int(offsets[j]), f)
				if err != nil {
					return track, fmt.Errorf("bone %q channel %d frame %d: %w", bone.name, j, f, err)
				}
				v[j] += float32(raw) * bone.scale[j]
			}
			keys.Positions[f] = mgl32.Vec3{v[0], v[1], v[2]}
			keys.Rotations[f] = common.QuatFromEuler(mgl32.Vec3{v[3], v[4], v[5]})
		}
		track.Bones[bi] = keys
	}
	return track, r.err
}

// readEvents reads a sequence's timeline events. Events stamped outside the timeline cannot
// fire and are dropped.
func (p *mdlParser) readEvents(d studioSeqDesc) ([]studio.AnimationEvent, error) {
	r := newMDLReader(p.data)
	if err := r.checkTable("event", d.numEvents, d.eventIndex, studioEventSize); err != nil {
		return nil, fmt.Errorf("mdl: %s: sequence %q: %w", p.name, d.label, err)
	}

	events := make([]studio.AnimationEvent, 0, d.numEvents)
	for e := 0; e < d.numEvents; e++ {
		r.seek(d.eventIndex + e*studioEventSize)
		raw := studioEvent{
			frame:   r.readI32(),
			event:   r.readI32(),
			typ:     r.readI32(),
			options: r.readStr(studioEventOptionsSize),
		}
		if raw.frame < 0 || raw.frame >= max(d.numFrames, 1) {
			log.Printf("[Loader] %s: sequence %q drops event %d at frame %d outside [0, %d)", p.name, d.label, raw.event, raw.frame, d.numFrames)
			continue
		}
		events = append(events, studio.AnimationEvent{
			Frame:   raw.frame,
			Event:   raw.event,
			Type:    raw.typ,
			Options: raw.options,
		})
	}
	return events, r.err
}

// sequenceGroupData returns the bytes animation offsets of a sequence group are relative to.
// Group 0 lives in the main file; other groups are separate files loaded once.
func (p *mdlParser) sequenceGroupData(group int) ([]byte, error) {
	if group == 0 {
		return p.data, nil
	}
	if group < 0 || group >= max(p.header.numSeqGroups, 1) {
		return nil, fmt.Errorf("sequence group %d outside [0, %d)", group, p.header.numSeqGroups)
	}
	if data, ok := p.groupData[group]; ok {
		return data, nil
	}
	if p.groups == nil {
		return nil, fmt.Errorf("sequence group %d is stored externally and no group source is available", group)
	}

	data, err := p.groups(group)
	if err != nil {
		return nil, fmt.Errorf("sequence group %d: %w", group, err)
	}
	if len(data) < 8 || string(data[:4]) != sequenceGroupHeaderID {
		return nil, fmt.Errorf("sequence group %d: bad magic, want %q", group, sequenceGroupHeaderID)
	}
	p.groupData[group] = data
	return data, nil
}
