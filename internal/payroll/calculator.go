package payroll

import "math"

// AllowanceInput carries the monthly allowance amounts in VND. Food and
// clothes are partially tax exempt, the rest is fully taxable.
type AllowanceInput struct {
	Food      float64
	Clothes   float64
	Parking   float64
	Fuel      float64
	HouseRent float64
	Phone     float64
}

func (a AllowanceInput) Total() float64 {
	return a.Food + a.Clothes + a.Parking + a.Fuel + a.HouseRent + a.Phone
}

// Input is one employee-month handed to the calculator. WorkingDays is the
// number of scheduled working days in the period, DaysOff the unworked part
// of it.
type Input struct {
	GrossSalary float64
	WorkingDays float64
	DaysOff     float64
	Dependents  int
	Probation   bool
	Vietnamese  bool
	Allowances  AllowanceInput

	OvertimeSoonHours float64
	OvertimeLateHours float64
	Bonus             float64
}

// Result itemizes every intermediate figure so payslips and audits can show
// the full derivation, not just the net.
type Result struct {
	EffectiveGross  float64
	AdjustedSalary  float64
	HourlyRate      float64
	OvertimeSoonPay float64
	OvertimeLatePay float64
	OvertimePay     float64

	TotalAllowances   float64
	TaxableAllowances float64

	SocialInsurance   float64
	HealthInsurance   float64
	AccidentInsurance float64
	TotalInsurance    float64

	PersonalRelief  float64
	DependentRelief float64
	TaxableIncome   float64
	Tax             float64

	NetSalary float64
}

// Calculate derives one employee-month. It is a pure function of the policy
// and the input, no clock and no storage, which is what makes recalculation
// idempotent.
func Calculate(p Policy, in Input) Result {
	var r Result

	r.EffectiveGross = in.GrossSalary
	if in.Probation {
		r.EffectiveGross = in.GrossSalary * p.ProbationFactor
	}

	// A zero-day period produces zero pay rather than dividing by zero.
	if in.WorkingDays > 0 {
		r.HourlyRate = r.EffectiveGross / (in.WorkingDays * p.HoursPerDay)
		r.AdjustedSalary = r.EffectiveGross / in.WorkingDays * (in.WorkingDays - in.DaysOff)
	}
	if r.AdjustedSalary < 0 {
		r.AdjustedSalary = 0
	}

	r.OvertimeSoonPay = r.HourlyRate * p.OvertimeSoonRate * in.OvertimeSoonHours
	r.OvertimeLatePay = r.HourlyRate * p.OvertimeLateRate * in.OvertimeLateHours
	r.OvertimePay = r.OvertimeSoonPay + r.OvertimeLatePay

	r.TotalAllowances = in.Allowances.Total()
	r.TaxableAllowances = taxableAllowances(p, in.Allowances)

	// Contributions are assessed on the contracted gross, not the
	// probation-scaled pay.
	r.SocialInsurance = math.Min(in.GrossSalary, p.SocialHealthCapBase*p.CapMultiplier) * p.SocialRate
	r.HealthInsurance = math.Min(in.GrossSalary, p.SocialHealthCapBase*p.CapMultiplier) * p.HealthRate
	if in.Vietnamese {
		r.AccidentInsurance = math.Min(in.GrossSalary, p.AccidentCapBase*p.CapMultiplier) * p.AccidentRate
	}
	r.TotalInsurance = r.SocialInsurance + r.HealthInsurance + r.AccidentInsurance

	r.PersonalRelief = p.PersonalRelief
	r.DependentRelief = float64(in.Dependents) * p.DependentRelief

	r.TaxableIncome = r.AdjustedSalary + r.TaxableAllowances + r.OvertimePay + in.Bonus -
		r.TotalInsurance - r.PersonalRelief - r.DependentRelief
	if r.TaxableIncome < 0 {
		r.TaxableIncome = 0
	}

	r.Tax = progressiveTax(p.Brackets, r.TaxableIncome)

	r.NetSalary = r.AdjustedSalary + r.TotalAllowances + r.OvertimePay + in.Bonus -
		r.TotalInsurance - r.Tax

	return r
}

func taxableAllowances(p Policy, a AllowanceInput) float64 {
	taxable := a.Parking + a.Fuel + a.HouseRent + a.Phone
	taxable += math.Max(0, a.Food-p.FoodExemption)
	taxable += math.Max(0, a.Clothes-p.ClothesExemptionAnnual/12)
	return taxable
}

// progressiveTax applies the marginal schedule: each band taxes only the
// slice of income falling inside it.
func progressiveTax(brackets []TaxBracket, income float64) float64 {
	tax := 0.0
	lower := 0.0
	for _, b := range brackets {
		if income <= lower {
			break
		}
		upper := b.UpperBound
		if upper == 0 || income < upper {
			upper = income
		}
		tax += (upper - lower) * b.Rate
		lower = b.UpperBound
		if lower == 0 {
			break
		}
	}
	return tax
}
