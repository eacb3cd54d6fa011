package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightDecreasesWithTotal(t *testing.T) {
	// 捐赠越多的站点权重越低，且永远为正
	previous := CalculateWeight(0, 0)
	assert.Positive(t, previous)
	for total := 1.0; total <= 1000; total *= 10 {
		w := CalculateWeight(total, 0)
		assert.Positive(t, w)
		assert.Less(t, w, previous)
		previous = w
	}
}

func TestWeightIncreasesWithOpenRequests(t *testing.T) {
	// 同等捐赠量下，紧缺需求越多的站点获得越高的曝光权重
	base := CalculateWeight(10, 0)
	boosted := CalculateWeight(10, 3)
	assert.Greater(t, boosted, base)

	// 权重公式的具体取值
	assert.Equal(t, 1.0/5.0, CalculateWeight(0, 0))
	assert.Equal(t, 2.0/5.0, CalculateWeight(0, 2))
}

func TestHaversineKnownDistances(t *testing.T) {
	// 悉尼市中心到Parramatta约20公里
	d := haversineKm(-33.8708, 151.2073, -33.8136, 151.0034)
	assert.InDelta(t, 20.0, d, 2.0)

	// 同一点距离为0
	assert.InDelta(t, 0.0, haversineKm(-33.87, 151.21, -33.87, 151.21), 1e-9)
}
