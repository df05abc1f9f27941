package catalog

// Product is one entry of the catalog file. Fields the file omits decode
// to their zero value; the displayability filter is where incomplete
// records get dropped, not the decoder.
type Product struct {
	Code            string    `json:"code"`
	ProductName     string    `json:"product_name"`
	ImageURL        string    `json:"image_url"`
	ImageSmallURL   string    `json:"image_small_url,omitempty"`
	NutriscoreGrade string    `json:"nutriscore_grade"`
	EnvScore        *EnvScore `json:"environmental_score_data,omitempty"`
	Price           float64   `json:"price,omitempty"`
	Category        string    `json:"category,omitempty"`
}

// EnvScore is the environmental scoring block. Grade "unknown" is the
// upstream sentinel for "not scored".
type EnvScore struct {
	Grade string  `json:"grade"`
	Score float64 `json:"score"`
}

const unknownGrade = "unknown"

// EnvGrade returns the environmental grade, or "" when the block is
// absent.
func (p Product) EnvGrade() string {
	if p.EnvScore == nil {
		return ""
	}
	return p.EnvScore.Grade
}

// EnvScoreValue returns the numeric environmental score, 0 when absent.
func (p Product) EnvScoreValue() float64 {
	if p.EnvScore == nil {
		return 0
	}
	return p.EnvScore.Score
}

// Displayable reports whether a product is complete enough to show:
// it needs a code, a name, at least one image, a nutrition grade and a
// known environmental grade.
func Displayable(p Product) bool {
	if p.Code == "" || p.ProductName == "" {
		return false
	}
	if p.ImageURL == "" && p.ImageSmallURL == "" {
		return false
	}
	if p.NutriscoreGrade == "" {
		return false
	}
	g := p.EnvGrade()
	return g != "" && g != unknownGrade
}

// FilterDisplayable keeps displayable products in their original order
// and truncates to limit. The input slice is never mutated.
func FilterDisplayable(products []Product, limit int) []Product {
	out := make([]Product, 0, limit)
	for _, p := range products {
		if !Displayable(p) {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out
}
