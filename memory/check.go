package memory

import "fmt"

// maxAtomicSize is the widest access any supported target performs atomically.
const maxAtomicSize = 16

// CheckAccess validates p before it is emitted. privileged reports whether
// the translated code runs in a privileged context. Checks run in order and
// the first failure is returned:
//
//   - a vector access with no lanes is InvalidSize
//   - a privileged access from unprivileged code, or an atomic execute, is a
//     ProtectionViolation
//   - an atomic access wider than 16 bytes or not naturally aligned is an
//     AtomicViolation
//   - a Strict access that is not naturally aligned is an AlignmentViolation
func CheckAccess(p AccessPattern, privileged bool) error {
	addr := p.Address()
	size := p.Size()

	if size == 0 {
		return &Error{Code: CodeInvalidSize, Address: addr, Size: size}
	}

	if p.Flags.Privileged && !privileged {
		return &Error{
			Code:    CodeProtectionViolation,
			Address: addr,
			Size:    size,
			Detail:  fmt.Sprintf("privileged access at %#x from unprivileged context", addr),
		}
	}

	atomic := p.IsAtomic()
	if atomic && p.Access == Execute {
		return &Error{
			Code:    CodeProtectionViolation,
			Address: addr,
			Size:    size,
			Detail:  "atomic execute access",
		}
	}

	if atomic {
		if size > maxAtomicSize {
			return &Error{
				Code:    CodeAtomicViolation,
				Address: addr,
				Size:    size,
				Detail:  fmt.Sprintf("%d-byte access exceeds %d-byte atomic limit", size, maxAtomicSize),
			}
		}
		if ActualAlignment(addr) < uint64(size) {
			return &Error{
				Code:     CodeAtomicViolation,
				Address:  addr,
				Size:     size,
				Required: uint64(size),
				Detail:   fmt.Sprintf("%d-byte access at %#x is not naturally aligned", size, addr),
			}
		}
	}

	if p.Alignment == Strict && ActualAlignment(addr) < uint64(size) {
		return &Error{
			Code:     CodeAlignmentViolation,
			Address:  addr,
			Size:     size,
			Required: uint64(size),
		}
	}
	return nil
}
