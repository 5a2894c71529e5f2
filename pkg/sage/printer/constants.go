// All formatting thresholds are configurable via these constants.
package printer

// Line width - the target maximum line length
const MaxLineWidth = 92

// Threshold percentage (of MaxLineWidth) below which a List/Vector/Map
// prints inline rather than breaking one element per line.
const ThresholdSmallPercent = 50

// SeqThreshold is the computed inline-vs-multiline cutoff for sequences
// and maps. Change MaxLineWidth to adjust it proportionally.
var SeqThreshold = MaxLineWidth * ThresholdSmallPercent / 100 // 46 chars

// Indentation - gofmt style: tabs for indentation.
const (
	TabWidth     = 4
	IndentWidth  = TabWidth
	IndentString = "\t"
)
