package status

// Worse returns the more severe of a and b. Ties return a, which is
// indistinguishable from b because the order is total over known values.
func Worse(a, b JudgeStatus) JudgeStatus {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// Aggregate derives a file verdict from its testcase verdicts.
//
// Precedence:
//  1. no testcases        => AC (nothing failed)
//  2. every testcase AC   => AC
//  3. otherwise           => the most severe verdict (see severity)
//
// The result does not depend on the order of statuses.
func Aggregate(statuses ...JudgeStatus) JudgeStatus {
	out := AC
	for _, s := range statuses {
		out = Worse(out, s)
	}
	return out
}
