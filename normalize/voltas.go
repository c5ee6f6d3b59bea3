package normalize

import "github.com/jsphweid/tabdex/model"

const maxEndings = 8

// voltas decodes each bar's ending value into ending numbers, ascending.
func (n *normalizer) voltas(bars []model.Bar) [][]int {
	masks := make([]int, len(bars))
	for i := range bars {
		switch bars[i].Endings.Encoding {
		case model.EndingBitflags:
			masks[i] = bars[i].Endings.Value
		case model.EndingRange:
			masks[i] = rangeMask(bars, masks, i)
		}
	}
	out := make([][]int, len(bars))
	for i, mask := range masks {
		out[i] = endings(mask)
	}
	return out
}

// rangeMask turns "up to N" into the endings 1..N that no earlier bar of
// the same repeat group claimed. The walk back stops at the group opening
// or at an earlier closing bar.
func rangeMask(bars []model.Bar, masks []int, i int) int {
	claimed := 0
	for j := i - 1; j >= 0; j-- {
		if bars[j].RepeatClose && j != i-1 {
			break
		}
		if bars[j].RepeatOpen {
			break
		}
		claimed |= masks[j]
	}
	mask := 0
	for e := 0; e < maxEndings && e < bars[i].Endings.Value; e++ {
		if claimed&(1<<e) == 0 {
			mask |= 1 << e
		}
	}
	return mask
}

func endings(mask int) []int {
	var out []int
	for bit := 0; bit < 31; bit++ {
		if mask&(1<<bit) != 0 {
			out = append(out, bit+1)
		}
	}
	return out
}
