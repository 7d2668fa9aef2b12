package course

import "sort"

// Sequence is the modules of one course sorted by ascending Order.
type Sequence []Module

func NewSequence(modules []Module) Sequence {
	seq := make(Sequence, len(modules))
	copy(seq, modules)
	sort.SliceStable(seq, func(i, j int) bool { return seq[i].Order < seq[j].Order })
	return seq
}

func (seq Sequence) First() (Module, bool) {
	if len(seq) == 0 {
		return Module{}, false
	}
	return seq[0], true
}

// NextAfter returns the module with the smallest Order strictly greater than order.
func (seq Sequence) NextAfter(order int) (Module, bool) {
	i := sort.Search(len(seq), func(i int) bool { return seq[i].Order > order })
	if i < len(seq) {
		return seq[i], true
	}
	return Module{}, false
}

func (seq Sequence) IsLast(mod Module) bool {
	_, ok := seq.NextAfter(mod.Order)
	return !ok
}
