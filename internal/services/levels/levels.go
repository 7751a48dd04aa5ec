package levels

import "math"

// Level is floor(sqrt(xp/10)). Level L starts at 10*L^2 xp.
func Level(xp uint64) uint64 {
	q := xp / 10
	l := uint64(math.Sqrt(float64(q)))
	// float rounding can be off by one near perfect squares
	for l > 0 && l*l > q {
		l--
	}
	for (l+1)*(l+1) <= q {
		l++
	}
	return l
}

// XPForLevel is the minimum xp that reaches level, saturating at MaxUint64.
func XPForLevel(level uint64) uint64 {
	if level > 1<<31 {
		return math.MaxUint64
	}
	sq := level * level
	if sq > math.MaxUint64/10 {
		return math.MaxUint64
	}
	return sq * 10
}

// Progress is how far xp is into its level.
type Progress struct {
	Level     uint64
	Current   uint64
	NextLevel uint64
}

func ProgressFor(xp uint64) Progress {
	l := Level(xp)
	start := XPForLevel(l)
	return Progress{
		Level:     l,
		Current:   xp - start,
		NextLevel: XPForLevel(l+1) - start,
	}
}

func Title(level uint64) string {
	switch {
	case level >= 50:
		return "Legend 🏆"
	case level >= 30:
		return "Veteran ⚔️"
	case level >= 20:
		return "Regular 🌟"
	case level >= 10:
		return "Chatter 💬"
	case level >= 5:
		return "Familiar Face 🙂"
	case level >= 1:
		return "Newcomer 🌱"
	default:
		return "Lurker 👀"
	}
}
