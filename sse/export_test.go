package sse

// Pending returns the number of residue bytes not yet forming a complete line.
func (d *Decoder) Pending() int { return len(d.residue) }
