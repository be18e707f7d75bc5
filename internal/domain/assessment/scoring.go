package assessment

// ══════════════════════════════════════════════════════════════════════════════
// SCORING AGGREGATOR
// Балл попытки = количество правильных ответов * PointsPerCorrectAnswer.
// Пересчёт идемпотентен: на баланс начисляется только разница между
// новым баллом и уже начисленной суммой (CreditedScore), поэтому
// повторный пересчёт никогда не завышает баланс.
// ══════════════════════════════════════════════════════════════════════════════

// Recompute пересчитывает балл попытки по её ответам и возвращает его.
func (a *Attempt) Recompute() int {
	correct := 0
	for i := range a.Answers {
		if a.Answers[i].IsCorrect {
			correct++
		}
	}

	a.Score = correct * PointsPerCorrectAnswer
	return a.Score
}

// CorrectCount возвращает количество правильных ответов попытки.
func (a *Attempt) CorrectCount() int {
	correct := 0
	for i := range a.Answers {
		if a.Answers[i].IsCorrect {
			correct++
		}
	}
	return correct
}

// CreditDelta возвращает сумму, подлежащую начислению на баланс: разницу
// между текущим баллом и уже начисленной суммой. Результат не бывает
// отрицательным: журнал не поддерживает списания.
func (a *Attempt) CreditDelta() int {
	delta := a.Score - a.CreditedScore
	if delta < 0 {
		return 0
	}
	return delta
}

// MarkCredited фиксирует, что текущий балл полностью начислен на баланс.
func (a *Attempt) MarkCredited() {
	a.CreditedScore = a.Score
}
