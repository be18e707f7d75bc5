package assessment

// ══════════════════════════════════════════════════════════════════════════════
// ANSWER EVALUATOR
// Чистая функция: правильность определяется только флагом выбранного
// варианта, без побочных эффектов.
// ══════════════════════════════════════════════════════════════════════════════

// Evaluate определяет правильность выбранного варианта для вопроса.
// Возвращает ErrOptionMismatch, если вариант не принадлежит вопросу.
func Evaluate(q *Question, optionID string) (bool, error) {
	if q == nil {
		return false, ErrQuestionNotFound
	}

	opt, err := q.OptionByID(optionID)
	if err != nil {
		return false, err
	}

	return opt.IsCorrect, nil
}
