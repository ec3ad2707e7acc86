package datapool

import (
	"fmt"
	"strings"
)

// FreeSentinel replaces the value of free slots in String.
const FreeSentinel = "-"

// String renders the values below the high-water mark separated by spaces.
// Meant for debugging, the format is not stable.
func (p *Pool[T]) String() string {

	sb := strings.Builder{}
	for id, item := range p.All() {
		if id > 0 {
			sb.WriteByte(' ')
		}
		if p.IsFree(id) {
			sb.WriteString(FreeSentinel)
			continue
		}
		fmt.Fprint(&sb, *item)
	}

	return sb.String()
}
