package coordinator

// idPool hands out agent ids last-in first-out. A fresh pool yields 0 first;
// a released id is the next one handed out.
type idPool struct {
	free []AgentID
	size int
}

func newIDPool(size int) *idPool {
	p := &idPool{size: size}
	p.reset()
	return p
}

// reset refills the pool so that acquire returns 0, 1, 2, ...
func (p *idPool) reset() {
	p.free = p.free[:0]
	for id := p.size - 1; id >= 0; id-- {
		p.free = append(p.free, AgentID(id))
	}
}

func (p *idPool) acquire() (AgentID, bool) {
	n := len(p.free)
	if n == 0 {
		return 0, false
	}
	id := p.free[n-1]
	p.free = p.free[:n-1]
	return id, true
}

func (p *idPool) release(id AgentID) {
	p.free = append(p.free, id)
}

func (p *idPool) available() int { return len(p.free) }
