package shadercheck

// Result is the outcome of a single status query.
type Result struct {
	OK      bool
	Message string // formatted diagnostic, empty when OK

	err error
}

// Err returns a *CompileFailure or *LinkFailure for a failed result, nil otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return r.err
}

// TruncateLog returns log cut to at most maxLen bytes.
func TruncateLog(log string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(log) > maxLen {
		return log[:maxLen]
	}
	return log
}

// ValidateStage checks whether stage compiled. label names the stage in
// the diagnostic ("VERTEX", "FRAGMENT", ...). The compiler log is read
// with a maxLen byte bound.
//
// ValidateStage only queries; calling it again on the same handle yields
// the same Result.
func ValidateStage(q Querier, stage StageHandle, label string, maxLen int) Result {
	if q.CompileStatus(stage) {
		return Result{OK: true}
	}
	f := &CompileFailure{
		Label: label,
		Log:   TruncateLog(q.CompileLog(stage, maxLen), maxLen),
	}
	return Result{Message: f.Message(), err: f}
}

// ValidateLink checks whether program linked, with the same log bound and
// query-only behavior as ValidateStage.
func ValidateLink(q Querier, program ProgramHandle, maxLen int) Result {
	if q.LinkStatus(program) {
		return Result{OK: true}
	}
	f := &LinkFailure{
		Log: TruncateLog(q.LinkLog(program, maxLen), maxLen),
	}
	return Result{Message: f.Message(), err: f}
}

// Validator couples the validators with a Sink. Failures are reported and
// returned; they are never fatal.
type Validator struct {
	Querier Querier
	Sink    Sink
	Options Options
}

// Stage validates a compiled stage and reports a failure to the sink.
func (v *Validator) Stage(stage StageHandle, label string) Result {
	r := ValidateStage(v.Querier, stage, label, v.Options.maxLen())
	v.report(r)
	return r
}

// Link validates a linked program and reports a failure to the sink.
func (v *Validator) Link(program ProgramHandle) Result {
	r := ValidateLink(v.Querier, program, v.Options.maxLen())
	v.report(r)
	return r
}

func (v *Validator) report(r Result) {
	if r.OK || v.Sink == nil {
		return
	}
	v.Sink.Report(r.Message)
}
