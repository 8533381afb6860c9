package keynumber

// Base is the size of the fixed symbol set KeyArithmetic operates over: a
// "below everything" sentinel, the 62 ASCII alphanumerics in their natural
// ASCII order, and an "above everything" sentinel. The sentinels let the
// planner express candidate start points that lie outside any key actually
// observed in the store (e.g. strictly below the first returned key).
const Base = 64

const (
	belowSentinel byte = 0x00
	aboveSentinel byte = 0x7f
)

var alphabet = buildAlphabet()

func buildAlphabet() [Base]byte {
	var a [Base]byte
	a[0] = belowSentinel
	i := 1
	for c := byte('0'); c <= '9'; c++ {
		a[i] = c
		i++
	}
	for c := byte('A'); c <= 'Z'; c++ {
		a[i] = c
		i++
	}
	for c := byte('a'); c <= 'z'; c++ {
		a[i] = c
		i++
	}
	a[Base-1] = aboveSentinel
	return a
}

var symbolIndex = buildSymbolIndex()

func buildSymbolIndex() map[byte]int {
	m := make(map[byte]int, Base)
	for i, c := range alphabet {
		m[c] = i
	}
	return m
}

// indexOf returns the alphabet position of c, or -1 if c is not a member of
// the fixed alphabet.
func indexOf(c byte) int {
	i, ok := symbolIndex[c]
	if !ok {
		return -1
	}
	return i
}
