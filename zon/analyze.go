package zon

// ============================================================
// Column Compression Analysis
// ============================================================
//
// Computed once per encode call over the flattened stream, consumed by the
// table writer, then discarded. Decoding never needs it: the decoder trusts
// whichever token is present in the text.

// colStats holds per-column compression eligibility.
type colStats struct {
	// sequential is true when every row has a numeric, non-boolean value in
	// this column and all consecutive differences are equal.
	sequential bool

	// step is the common difference for sequential columns.
	step float64

	// repetition is true when at least two rows share a value, by deep
	// structural equality.
	repetition bool
}

// analyzeColumns computes compression eligibility for every column across
// the flattened rows. Absent cells count as null: they disqualify the
// sequential check and never participate in repetition.
func analyzeColumns(rows []rowEntries, cols []string) map[string]colStats {
	analysis := make(map[string]colStats, len(cols))

	for _, col := range cols {
		var stats colStats

		vals := make([]*Value, 0, len(rows))
		for _, row := range rows {
			vals = append(vals, row.get(col))
		}

		stats.sequential, stats.step = detectSequence(vals)
		stats.repetition = detectRepetition(vals)

		analysis[col] = stats
	}

	return analysis
}

// detectSequence reports whether vals form an arithmetic sequence and
// returns the common step. Requires at least two rows, all numeric.
// All-int columns are compared in exact integer arithmetic: beyond 2^53 a
// float64 comparison cannot tell neighboring integers apart.
func detectSequence(vals []*Value) (bool, float64) {
	if len(vals) < 2 {
		return false, 0
	}

	allInt := true
	for _, v := range vals {
		if v.Type() != TypeInt {
			allInt = false
			break
		}
	}
	if allInt {
		step, ok := intStep(vals)
		if !ok {
			return false, 0
		}
		return true, float64(step)
	}

	nums := make([]float64, len(vals))
	for i, v := range vals {
		n, ok := v.Number()
		if !ok {
			return false, 0
		}
		nums[i] = n
	}
	step := nums[1] - nums[0]
	for i := 2; i < len(nums); i++ {
		if nums[i]-nums[i-1] != step {
			return false, 0
		}
	}
	return true, step
}

// intStep returns the exact common difference of an all-int column, or
// false when the differences vary or overflow int64.
func intStep(vals []*Value) (int64, bool) {
	step, ok := intDelta(vals[0].intVal, vals[1].intVal)
	if !ok {
		return 0, false
	}
	for i := 2; i < len(vals); i++ {
		d, ok := intDelta(vals[i-1].intVal, vals[i].intVal)
		if !ok || d != step {
			return 0, false
		}
	}
	return step, true
}

// intDelta computes b-a, reporting false on int64 overflow.
func intDelta(a, b int64) (int64, bool) {
	d := b - a
	if (b >= a) != (d >= 0) {
		return 0, false
	}
	return d, true
}

// detectRepetition reports whether any two rows share a non-null value.
// Values are compared through their canonical node rendering, which is
// deterministic (sorted keys), so compound cells repeat too. Null and
// absent cells are skipped: they render empty and can never take the
// repeat token.
func detectRepetition(vals []*Value) bool {
	if len(vals) < 2 {
		return false
	}
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		key := formatNode(v)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}
