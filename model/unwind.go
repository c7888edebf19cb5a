package model

// unwinder records release actions for resources acquired so far. If
// construction fails, unwind runs them in reverse order; once construction
// succeeds, disarm hands ownership to the Handle.
type unwinder struct {
	releases []func()
}

func (u *unwinder) push(release func()) {
	u.releases = append(u.releases, release)
}

func (u *unwinder) unwind() {
	for i := len(u.releases) - 1; i >= 0; i-- {
		u.releases[i]()
	}
	u.releases = nil
}

func (u *unwinder) disarm() {
	u.releases = nil
}
