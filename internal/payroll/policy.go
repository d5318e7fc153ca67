package payroll

// TaxBracket is one band of the progressive schedule. UpperBound 0 means the
// band is open-ended.
type TaxBracket struct {
	UpperBound float64
	Rate       float64
}

// Policy collects every statutory constant the calculator needs. Amounts are
// monthly VND unless noted. Keeping them here instead of inline means a new
// government decree is a one-place change.
type Policy struct {
	Brackets []TaxBracket

	SocialRate   float64
	HealthRate   float64
	AccidentRate float64

	// Contribution bases are capped at a multiple of the statutory reference
	// salaries. Social and health share one cap, accident has its own.
	SocialHealthCapBase float64
	AccidentCapBase     float64
	CapMultiplier       float64

	PersonalRelief  float64
	DependentRelief float64

	// Tax-exempt allowance ceilings. Clothes is an annual figure applied at
	// one twelfth per month.
	FoodExemption          float64
	ClothesExemptionAnnual float64

	ProbationFactor  float64
	OvertimeSoonRate float64
	OvertimeLateRate float64
	HoursPerDay      float64
}

func DefaultPolicy() Policy {
	return Policy{
		Brackets: []TaxBracket{
			{UpperBound: 5_000_000, Rate: 0.05},
			{UpperBound: 10_000_000, Rate: 0.10},
			{UpperBound: 18_000_000, Rate: 0.15},
			{UpperBound: 32_000_000, Rate: 0.20},
			{UpperBound: 52_000_000, Rate: 0.25},
			{UpperBound: 80_000_000, Rate: 0.30},
			{UpperBound: 0, Rate: 0.35},
		},

		SocialRate:   0.08,
		HealthRate:   0.015,
		AccidentRate: 0.01,

		SocialHealthCapBase: 2_340_000,
		AccidentCapBase:     4_960_000,
		CapMultiplier:       20,

		PersonalRelief:  11_000_000,
		DependentRelief: 4_400_000,

		FoodExemption:          730_000,
		ClothesExemptionAnnual: 5_000_000,

		ProbationFactor:  0.85,
		OvertimeSoonRate: 1.5,
		OvertimeLateRate: 1.8,
		HoursPerDay:      8,
	}
}
