package calc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTMB_Masculino(t *testing.T) {
	res := TMB(TMBInput{Age: 25, Weight: 70, Height: 170, Gender: "masculino", ActivityLevel: "moderado"})

	// 88.362 + 13.397*70 + 4.799*170 - 5.677*25 = 1700.057
	assert.Equal(t, 1700, res.TMB)
	assert.Equal(t, 2635, res.TDEE) // 1700.057 * 1.55
	assert.Equal(t, 2108, res.Recommendations.Cutting)
	assert.Equal(t, 2635, res.Recommendations.Manutencao)
	assert.Equal(t, 3162, res.Recommendations.Ganho)
}

func TestTMB_Feminino(t *testing.T) {
	res := TMB(TMBInput{Age: 30, Weight: 60, Height: 165, Gender: "feminino", ActivityLevel: "leve"})

	// 447.593 + 9.247*60 + 3.098*165 - 4.330*30 = 1383.683
	assert.Equal(t, 1384, res.TMB)
	assert.Equal(t, 1903, res.TDEE) // 1383.683 * 1.375
}

func TestTMB_UnknownActivityDefaultsToSedentary(t *testing.T) {
	known := TMB(TMBInput{Age: 25, Weight: 70, Height: 170, Gender: "masculino", ActivityLevel: "sedentario"})
	unknown := TMB(TMBInput{Age: 25, Weight: 70, Height: 170, Gender: "masculino", ActivityLevel: "outra_coisa"})

	assert.Equal(t, known.TDEE, unknown.TDEE)
}

func TestMacros_Cutting(t *testing.T) {
	res := Macros(MacrosInput{Calories: 2000, Objective: "cutting", Weight: 80})

	assert.Equal(t, 200, res.Proteina.Gramas) // 2000*0.40/4
	assert.Equal(t, 800, res.Proteina.Calorias)
	assert.Equal(t, 40, res.Proteina.Percentual)

	assert.Equal(t, 150, res.Carboidrato.Gramas) // 2000*0.30/4
	assert.Equal(t, 600, res.Carboidrato.Calorias)
	assert.Equal(t, 30, res.Carboidrato.Percentual)

	assert.Equal(t, 67, res.Gordura.Gramas) // 2000*0.30/9
	assert.Equal(t, 600, res.Gordura.Calorias)
	assert.Equal(t, 30, res.Gordura.Percentual)

	require.NotNil(t, res.ProteinaPorKg)
	assert.InDelta(t, 2.5, *res.ProteinaPorKg, 0.001)
}

func TestMacros_GanhoMassa(t *testing.T) {
	res := Macros(MacrosInput{Calories: 3000, Objective: "ganho_massa", Weight: 70})

	assert.Equal(t, 225, res.Proteina.Gramas)
	assert.Equal(t, 338, res.Carboidrato.Gramas) // 337.5 rounds away from zero
	assert.Equal(t, 83, res.Gordura.Gramas)
	require.NotNil(t, res.ProteinaPorKg)
	assert.InDelta(t, 3.21, *res.ProteinaPorKg, 0.001)
}

func TestMacros_MissingWeight(t *testing.T) {
	res := Macros(MacrosInput{Calories: 2000, Objective: "cutting"})

	assert.Nil(t, res.ProteinaPorKg)
	assert.Equal(t, 200, res.Proteina.Gramas)

	// the result must survive serialization; Inf would not
	_, err := json.Marshal(res)
	assert.NoError(t, err)
}

func TestMacros_DefaultRatios(t *testing.T) {
	res := Macros(MacrosInput{Calories: 2000, Objective: "qualquer", Weight: 70})

	assert.Equal(t, 30, res.Proteina.Percentual)
	assert.Equal(t, 40, res.Carboidrato.Percentual)
	assert.Equal(t, 30, res.Gordura.Percentual)
}

func TestCalories_Cutting(t *testing.T) {
	res := Calories(CaloriesInput{Objective: "cutting", CurrentCalories: 2500, Weight: 80, TargetWeight: 75})

	assert.Equal(t, 1950, res.CaloriaMeta) // 2500 - 0.5*7700/7
	assert.Equal(t, -550, res.Ajuste)
	assert.Equal(t, 10, res.TempoEstimado) // 5kg at 0.5kg/week
	assert.Equal(t, "déficit", res.DeficitOuSuperavit)
}

func TestCalories_GanhoMassa(t *testing.T) {
	res := Calories(CaloriesInput{Objective: "ganho_massa", CurrentCalories: 2500, Weight: 70, TargetWeight: 74})

	assert.Equal(t, 3050, res.CaloriaMeta)
	assert.Equal(t, 550, res.Ajuste)
	assert.Equal(t, 8, res.TempoEstimado)
	assert.Equal(t, "superávit", res.DeficitOuSuperavit)
}

func TestCalories_Manutencao(t *testing.T) {
	res := Calories(CaloriesInput{Objective: "manutencao", CurrentCalories: 2200, Weight: 70})

	assert.Equal(t, 2200, res.CaloriaMeta)
	assert.Equal(t, 0, res.Ajuste)
	assert.Equal(t, 0, res.TempoEstimado)
	assert.Equal(t, "manutenção", res.DeficitOuSuperavit)
}
