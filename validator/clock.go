package validator

import "time"

// Clock supplies the current time to the Validator. It exists so that
// claim validation stays deterministic under test; the default is
// time.Now.
//
// ValidateToken reads the clock exactly once per call and reuses that
// snapshot for every claim check, so a token evaluated across a clock
// tick cannot produce inconsistent exp and nbf verdicts.
type Clock func() time.Time
