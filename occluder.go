package strokemesh

// pendingPatch is a depth value owed to a staged draw. The value is known
// only when the occluder holding the patch is popped.
type pendingPatch struct {
	// target indexes the staged draws of the frame.
	target   int
	value    int
	resolved bool
}

// occluder is a group of depth-only draws sharing one depth value. They
// hide whatever is drawn while the occluder is open, and nothing drawn
// after it is popped.
type occluder struct {
	patches []pendingPatch
}

func (p *Painter) pushOccluder(o occluder) {
	if len(o.patches) == 0 {
		return
	}
	p.occluders = append(p.occluders, o)
}

// popOccluder reserves a depth value above every draw made while the
// occluder was open and writes it into the occluder draws.
func (p *Painter) popOccluder() {
	last := len(p.occluders) - 1
	o := p.occluders[last]
	p.occluders[last] = occluder{}
	p.occluders = p.occluders[:last]

	value := p.z
	p.z++
	for i := range o.patches {
		pp := &o.patches[i]
		pp.value, pp.resolved = value, true
		p.draws[pp.target].Z = value
	}
}

// OccluderDepth returns the number of open occluders.
func (p *Painter) OccluderDepth() int { return len(p.occluders) }
