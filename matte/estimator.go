package matte

import "math"

// EstimateBackground 从候选颜色中选出与其它候选距离平方和最小的一个（medoid）。
// 分数相同时取靠前的候选；没有候选时返回 White。
func EstimateBackground(candidates []Color) Color {
	switch len(candidates) {
	case 0:
		return White
	case 1:
		return candidates[0]
	}

	best := 0
	bestScore := math.MaxInt
	for i, c := range candidates {
		score := 0
		for j, o := range candidates {
			if i == j {
				continue
			}
			score += c.DistanceSq(o)
		}
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return candidates[best]
}
