package util

import "fmt"

// Fraction is an exact rational, always reduced with a positive
// denominator. Durations are summed as fractions of a whole note so tuplet
// runs never drift.
type Fraction struct {
	Num int64
	Den int64
}

func NewFraction(num, den int64) Fraction {
	if den == 0 {
		panic("util: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := GCD(num, den)
	if g == 0 {
		g = 1
	}
	return Fraction{Num: num / g, Den: den / g}
}

func (f Fraction) norm() Fraction {
	if f.Den == 0 {
		return Fraction{Num: 0, Den: 1}
	}
	return f
}

func (f Fraction) Add(g Fraction) Fraction {
	f, g = f.norm(), g.norm()
	return NewFraction(f.Num*g.Den+g.Num*f.Den, f.Den*g.Den)
}

func (f Fraction) Sub(g Fraction) Fraction {
	g = g.norm()
	return f.Add(Fraction{Num: -g.Num, Den: g.Den})
}

func (f Fraction) Mul(g Fraction) Fraction {
	f, g = f.norm(), g.norm()
	return NewFraction(f.Num*g.Num, f.Den*g.Den)
}

// Cmp returns -1, 0 or 1.
func (f Fraction) Cmp(g Fraction) int {
	f, g = f.norm(), g.norm()
	l, r := f.Num*g.Den, g.Num*f.Den
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// Round returns f rounded to the nearest integer, halves away from zero.
func (f Fraction) Round() int64 {
	f = f.norm()
	q, r := f.Num/f.Den, f.Num%f.Den
	if 2*abs(r) >= f.Den {
		if f.Num < 0 {
			return q - 1
		}
		return q + 1
	}
	return q
}

func (f Fraction) String() string {
	f = f.norm()
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
