package lottery

// 管理员参数更新
// 规则统一：仅管理员可改，新值必须为正数且与当前值不同（拒绝空更新）。
// 变更只影响之后创建的轮次/购票校验，不回溯已创建轮次的 DigitCount 快照。

func (e *Engine) UpdateDigitCount(caller Account, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return ErrUnauthorized
	}
	if n <= 0 {
		return ErrInvalidParamValue
	}
	if n == e.params.DigitCount {
		return ErrNoOpUpdate
	}
	e.params.DigitCount = n
	return nil
}

func (e *Engine) UpdateDigitRange(caller Account, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return ErrUnauthorized
	}
	if n <= 0 {
		return ErrInvalidParamValue
	}
	if n == e.params.DigitRange {
		return ErrNoOpUpdate
	}
	e.params.DigitRange = n
	return nil
}

func (e *Engine) UpdateMaxBatch(caller Account, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return ErrUnauthorized
	}
	if n <= 0 {
		return ErrInvalidParamValue
	}
	if n == e.params.MaxTicketsPerBatch {
		return ErrNoOpUpdate
	}
	e.params.MaxTicketsPerBatch = n
	return nil
}
