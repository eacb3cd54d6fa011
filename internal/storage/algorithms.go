package storage

// CalculateWeight 根据站点已收到的捐赠笔数和未满足的物资需求数，
// 计算其"冷门优先"曝光权重。捐赠越少、紧缺需求越多的站点权重越高，
// 从而在首页聚光位上获得更多露出。
func CalculateWeight(total float64, openRequests int64) float64 {
	return (1.0 + 0.5*float64(openRequests)) / (total + 5.0)
}
