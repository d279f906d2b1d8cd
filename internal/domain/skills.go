package domain

// SkillDimensions — количество измерений навыков.
const SkillDimensions = 6

// Имена измерений навыков в каноническом порядке.
// Порядок фиксирован: он используется при сериализации и в CSV.
var SkillNames = [SkillDimensions]string{
	"Bending",
	"Gluing",
	"Assembling",
	"EdgeScrap",
	"OpenPaper",
	"QualityControl",
}

// SkillSet — шесть значений по измерениям навыков.
//
// Используется в двух ролях:
//   - у задачи (TaskDef.Weights): релевантность навыка в процентах, 0–100
//   - у работника (Worker.Skills): уровень владения навыком, 0.0–1.0
type SkillSet struct {
	// Bending — сгибание.
	Bending float64 `json:"bending"`

	// Gluing — склейка.
	Gluing float64 `json:"gluing"`

	// Assembling — сборка.
	Assembling float64 `json:"assembling"`

	// EdgeScrap — обработка кромки.
	EdgeScrap float64 `json:"edge_scrap"`

	// OpenPaper — раскрой листа.
	OpenPaper float64 `json:"open_paper"`

	// QualityControl — контроль качества.
	QualityControl float64 `json:"quality_control"`
}

// Values возвращает значения в каноническом порядке SkillNames.
func (s SkillSet) Values() [SkillDimensions]float64 {
	return [SkillDimensions]float64{
		s.Bending,
		s.Gluing,
		s.Assembling,
		s.EdgeScrap,
		s.OpenPaper,
		s.QualityControl,
	}
}

// InRange проверяет, что все значения лежат в [min, max].
func (s SkillSet) InRange(min, max float64) bool {
	for _, v := range s.Values() {
		if v < min || v > max {
			return false
		}
	}
	return true
}

// IsZero возвращает true, если все значения равны нулю.
func (s SkillSet) IsZero() bool {
	for _, v := range s.Values() {
		if v != 0 {
			return false
		}
	}
	return true
}
