package tensor

import (
	"io"
	"strconv"
	"strings"
)

// DefaultMaxPrintElements is the element count above which long dimensions
// are elided when printing.
const DefaultMaxPrintElements = 1024

// skip marks the half-open range of a dimension that is elided when printing.
type skip struct {
	low, high int
}

// Format writes the layout's elements, rendered by printer, as nested
// brackets. Values are right aligned to the widest rendering. When the layout
// has more than maxElements elements, every dimension of size 7 or more only
// shows its first and last three entries.
func (l *Layout) Format(w io.Writer, maxElements int, printer func(offset int) string) error {
	var sb strings.Builder
	l.format(&sb, maxElements, printer)
	_, err := io.WriteString(w, sb.String())
	return err
}

// String prints the storage offset of every element of the layout.
func (l *Layout) String() string {
	var sb strings.Builder
	l.format(&sb, DefaultMaxPrintElements, strconv.Itoa)
	return sb.String()
}

func (l *Layout) format(sb *strings.Builder, maxElements int, printer func(offset int) string) {
	rank := len(l.shape)
	if rank == 0 {
		sb.WriteString(printer(l.offset))
		sb.WriteByte('\n')
		return
	}

	sb.WriteString("Shape: [")
	for i, s := range l.shape {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(s))
	}
	sb.WriteString("]")

	n := l.NumElements()
	if n == 0 {
		sb.WriteString(" Empty\n")
		return
	}
	sb.WriteByte('\n')

	skips := make([]skip, rank)
	if n > maxElements {
		for i, s := range l.shape {
			if s < 7 {
				continue
			}
			skips[i] = skip{low: 3, high: s - 3}
		}
	}

	width := 0
	l.ForEachOffset(func(offset int) {
		width = max(width, len(printer(offset)))
	})

	l.ForEachIndexedOffset(func(index []int, offset int) {
		open := 0
		for i := rank - 1; i >= 0 && index[i] == 0; i-- {
			open++
		}
		for i := range index {
			sk := skips[i]
			if sk.low >= sk.high {
				continue
			}
			if sk.low <= index[i] && index[i] < sk.high {
				if index[i] == sk.low && open+i+1 >= rank {
					if open != 0 {
						sb.WriteString(strings.Repeat(" ", rank-open))
						sb.WriteString("...,")
						sb.WriteString(strings.Repeat("\n", open))
					} else {
						sb.WriteString("..., ")
					}
				}
				return
			}
		}

		if open != 0 {
			sb.WriteString(strings.Repeat(" ", rank-open))
			sb.WriteString(strings.Repeat("[", open))
		}
		text := printer(offset)
		if pad := width - len(text); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(text)

		if index[rank-1]+1 != l.shape[rank-1] {
			sb.WriteString(", ")
			return
		}
		closing := 0
		for i := rank - 1; i >= 0 && index[i]+1 == l.shape[i]; i-- {
			closing++
		}
		sb.WriteString(strings.Repeat("]", closing))
		if closing < rank {
			sb.WriteByte(',')
			sb.WriteString(strings.Repeat("\n", closing))
		}
	})
}
