package engine

import "github.com/shaiso/Fabrika/internal/domain"

// Веса слагаемых итоговой оценки.
const (
	skillWeight       = 0.6  // доля соответствия навыков
	continuityBonus   = 0.10 // бонус за продолжение текущего продукта
	progressionWeight = 0.25 // множитель бонуса за разблокирование
)

// Бонусы за совпадение с любимыми продуктами, по позициям 1–3.
var preferenceBonus = [domain.FavoriteProducts]float64{0.05, 0.03, 0.02}

// SkillMatch вычисляет соответствие навыков работника требованиям задачи.
//
// Учитываются только измерения с ненулевой релевантностью: вес измерения
// равен релевантности/100, результат — взвешенное среднее уровней навыка.
// Если ни одно измерение не релевантно, соответствие равно 0
// (деление на ноль исключено; это штатное состояние, не ошибка).
func SkillMatch(skills, weights domain.SkillSet) float64 {
	var score, total float64
	sv := skills.Values()
	wv := weights.Values()
	for i := 0; i < domain.SkillDimensions; i++ {
		if wv[i] <= 0 {
			continue
		}
		w := wv[i] / 100
		score += sv[i] * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return score / total
}

// candidateScore вычисляет итоговую оценку назначения задачи работнику.
//
// Итог = 0.6×соответствие навыков + бонус непрерывности + бонус
// предпочтения + бонус прогрессии. Бонус прогрессии получают только
// агрессивные работники и только за задачи, от результата которых
// зависят другие задачи: 0.25 × агрессивность × число зависимых.
func candidateScore(worker *domain.Worker, def *domain.TaskDef, ws *domain.WorkerStats, aggressive bool, dependents int) float64 {
	score := SkillMatch(worker.Skills, def.Weights) * skillWeight

	if ws.CurrentProduct == def.Product {
		score += continuityBonus
	}

	if rank := worker.FavoriteRank(def.Product); rank > 0 {
		score += preferenceBonus[rank-1]
	}

	if aggressive && dependents > 0 {
		score += progressionWeight * ws.Aggressiveness * float64(dependents)
	}

	return score
}
