// Package calc implements the metabolic calculators: basal metabolic rate
// (Harris-Benedict), macro splits and caloric targets. All functions are pure;
// persistence of the input/output pairs happens at the handler level.
package calc

import "math"

var activityMultipliers = map[string]float64{
	"sedentario":    1.2,
	"leve":          1.375,
	"moderado":      1.55,
	"intenso":       1.725,
	"muito_intenso": 1.9,
}

type TMBInput struct {
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	Gender        string  `json:"gender"` // 'masculino' or 'feminino'
	ActivityLevel string  `json:"activityLevel"`
}

type TMBResult struct {
	TMB             int                `json:"tmb"`
	TDEE            int                `json:"tdee"`
	ActivityLevel   string             `json:"activityLevel"`
	Recommendations TMBRecommendations `json:"recommendations"`
}

type TMBRecommendations struct {
	Cutting    int `json:"cutting"`
	Manutencao int `json:"manutencao"`
	Ganho      int `json:"ganho"`
}

// TMB computes the basal metabolic rate with the Harris-Benedict equation and
// derives the total daily energy expenditure from the activity level.
func TMB(in TMBInput) TMBResult {
	var tmb float64
	if in.Gender == "masculino" {
		tmb = 88.362 + 13.397*in.Weight + 4.799*in.Height - 5.677*float64(in.Age)
	} else {
		tmb = 447.593 + 9.247*in.Weight + 3.098*in.Height - 4.330*float64(in.Age)
	}

	mult, ok := activityMultipliers[in.ActivityLevel]
	if !ok {
		mult = 1.2
	}
	tdee := tmb * mult

	return TMBResult{
		TMB:           round(tmb),
		TDEE:          round(tdee),
		ActivityLevel: in.ActivityLevel,
		Recommendations: TMBRecommendations{
			Cutting:    round(tdee * 0.8),
			Manutencao: round(tdee),
			Ganho:      round(tdee * 1.2),
		},
	}
}

type MacrosInput struct {
	Calories  float64 `json:"calories"`
	Objective string  `json:"objective"` // 'ganho_massa', 'cutting', 'recomposicao'
	Weight    float64 `json:"weight"`
}

type MacroSplit struct {
	Gramas     int `json:"gramas"`
	Calorias   int `json:"calorias"`
	Percentual int `json:"percentual"`
}

type MacrosResult struct {
	Calorias      float64    `json:"calorias"`
	Proteina      MacroSplit `json:"proteina"`
	Carboidrato   MacroSplit `json:"carboidrato"`
	Gordura       MacroSplit `json:"gordura"`
	ProteinaPorKg *float64   `json:"proteinaPorKg"` // nil when no weight was given
}

// Macros splits total calories into protein/carb/fat with fixed ratios per
// objective. Protein and carbs count 4 kcal/g, fat 9 kcal/g.
func Macros(in MacrosInput) MacrosResult {
	var proteinRatio, carbRatio, fatRatio float64
	switch in.Objective {
	case "ganho_massa":
		proteinRatio, carbRatio, fatRatio = 0.30, 0.45, 0.25
	case "cutting":
		proteinRatio, carbRatio, fatRatio = 0.40, 0.30, 0.30
	case "recomposicao":
		proteinRatio, carbRatio, fatRatio = 0.35, 0.40, 0.25
	default:
		proteinRatio, carbRatio, fatRatio = 0.30, 0.40, 0.30
	}

	proteinGrams := in.Calories * proteinRatio / 4

	var proteinPerKg *float64
	if in.Weight > 0 {
		v := math.Round(proteinGrams/in.Weight*100) / 100
		proteinPerKg = &v
	}

	return MacrosResult{
		Calorias: in.Calories,
		Proteina: MacroSplit{
			Gramas:     round(proteinGrams),
			Calorias:   round(in.Calories * proteinRatio),
			Percentual: round(proteinRatio * 100),
		},
		Carboidrato: MacroSplit{
			Gramas:     round(in.Calories * carbRatio / 4),
			Calorias:   round(in.Calories * carbRatio),
			Percentual: round(carbRatio * 100),
		},
		Gordura: MacroSplit{
			Gramas:     round(in.Calories * fatRatio / 9),
			Calorias:   round(in.Calories * fatRatio),
			Percentual: round(fatRatio * 100),
		},
		ProteinaPorKg: proteinPerKg,
	}
}

type CaloriesInput struct {
	Objective       string  `json:"objective"`
	CurrentCalories float64 `json:"currentCalories"`
	Weight          float64 `json:"weight"`
	TargetWeight    float64 `json:"targetWeight"`
}

type CaloriesResult struct {
	CaloriaAtual       float64 `json:"caloriaAtual"`
	CaloriaMeta        int     `json:"caloriaMeta"`
	Ajuste             int     `json:"ajuste"`
	Objetivo           string  `json:"objetivo"`
	TempoEstimado      int     `json:"tempoEstimado"`
	DeficitOuSuperavit string  `json:"deficitOuSuperavit"`
}

// Calories derives a daily caloric target from a safe 0.5kg/week change rate
// (~7700 kcal per kg of body weight).
func Calories(in CaloriesInput) CaloriesResult {
	const (
		weeklyChange  = 0.5
		caloriesPerKg = 7700.0
	)
	dailyAdjustment := weeklyChange * caloriesPerKg / 7

	var adjustment float64
	switch in.Objective {
	case "cutting":
		adjustment = -dailyAdjustment
	case "ganho_massa":
		adjustment = dailyAdjustment
	}

	weeksToGoal := 0.0
	if in.TargetWeight != 0 {
		weeksToGoal = math.Abs(in.TargetWeight-in.Weight) / weeklyChange
	}

	kind := "manutenção"
	if adjustment < 0 {
		kind = "déficit"
	} else if adjustment > 0 {
		kind = "superávit"
	}

	return CaloriesResult{
		CaloriaAtual:       in.CurrentCalories,
		CaloriaMeta:        round(in.CurrentCalories + adjustment),
		Ajuste:             round(adjustment),
		Objetivo:           in.Objective,
		TempoEstimado:      round(weeksToGoal),
		DeficitOuSuperavit: kind,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
