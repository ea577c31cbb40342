package domain

// Edge is a directed connection from an outgoing port to an incoming port.
type Edge struct {
	From PortRef `json:"from" yaml:"from"`
	To   PortRef `json:"to" yaml:"to"`
}

// Touches reports whether the edge is attached to the given port.
func (e Edge) Touches(ref PortRef) bool {
	return e.From == ref || e.To == ref
}

// Opposite returns the other end of the edge as seen from ref.
func (e Edge) Opposite(ref PortRef) (PortRef, bool) {
	switch ref {
	case e.From:
		return e.To, true
	case e.To:
		return e.From, true
	}
	return PortRef{}, false
}

func (e Edge) String() string {
	return e.From.String() + " -> " + e.To.String()
}
