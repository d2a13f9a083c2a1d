package scoring

// percentileStep maps a minimum total score to an estimated percentile.
type percentileStep struct {
	MinScore   float64
	Percentile float64
}

// percentileTable is a fixed approximation of the JEE Main marks-vs-percentile
// curve. It is not backed by population data; keep it as is until real
// normative data exists. Ordered by MinScore descending.
var percentileTable = []percentileStep{
	{MinScore: 350, Percentile: 99.5},
	{MinScore: 300, Percentile: 99},
	{MinScore: 250, Percentile: 98},
	{MinScore: 200, Percentile: 95},
	{MinScore: 150, Percentile: 90},
	{MinScore: 100, Percentile: 80},
	{MinScore: 50, Percentile: 60},
}

// floorPercentile applies to every score below the lowest threshold, negatives included.
const floorPercentile = 30.0

// EstimatePercentile returns the percentile of the highest threshold not exceeding total.
func EstimatePercentile(total float64) float64 {
	for _, step := range percentileTable {
		if total >= step.MinScore {
			return step.Percentile
		}
	}
	return floorPercentile
}
