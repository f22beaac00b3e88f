package diet

type PlanRequest struct {
	Age    int     `json:"age" validate:"required,min=1,max=120"`
	Height float64 `json:"height" validate:"required,min=50,max=272"`
	Weight float64 `json:"weight" validate:"required,min=2,max=500"`
}

type Meals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

type DayPlan struct {
	Day string `json:"day"`
	Meals
}

type PlanResponse struct {
	Days     []DayPlan `json:"days"`
	Provider string    `json:"provider"`
	Cached   bool      `json:"cached"`
}

// Days is the order a plan is presented in.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
