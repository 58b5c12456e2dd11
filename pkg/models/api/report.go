package api

// Monetary values are decimal strings with two fractional digits; percentages carry a trailing
// "%" or "N/A".

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Comparison struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
	Delta    string `json:"delta"`
}

type CombinedPoint struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
	Cost    string `json:"cost"`
}

type SeriesPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type CategoryAmount struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type Warning struct {
	Metric  string `json:"metric"`
	Message string `json:"message"`
}

type FinanceReport struct {
	Year         int              `json:"year"`
	Month        string           `json:"month"`
	Current      Period           `json:"current_period"`
	Previous     Period           `json:"previous_period"`
	Revenue      Comparison       `json:"revenue"`
	Cost         Comparison       `json:"cost"`
	Profit       string           `json:"profit"`
	ProfitMargin string           `json:"profit_margin"`
	CostMargin   string           `json:"cost_margin"`
	Combined     []CombinedPoint  `json:"combined"`
	ByCategory   []CategoryAmount `json:"by_category"`
	TopPayments  []Payment        `json:"top_payments"`
	Warnings     []Warning        `json:"warnings"`
}

type AccountingReport struct {
	Year                 int              `json:"year"`
	Month                string           `json:"month"`
	Period               Period           `json:"period"`
	Total                string           `json:"total"`
	Count                int              `json:"count"`
	Average              string           `json:"average"`
	MostFrequentCategory *string          `json:"most_frequent_category"`
	TopCategory          *string          `json:"top_category"`
	TopCategoryAmount    string           `json:"top_category_amount"`
	TopCategoryPercent   string           `json:"top_category_percent"`
	Series               []SeriesPoint    `json:"series"`
	ByCategory           []CategoryAmount `json:"by_category"`
	TopPayments          []Payment        `json:"top_payments"`
	Warnings             []Warning        `json:"warnings"`
}

type MonthOption struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
}

type Periods struct {
	Years  []int         `json:"years"`
	Months []MonthOption `json:"months"`
}

type Board struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
