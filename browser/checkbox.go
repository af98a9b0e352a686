package browser

// Action is what has to be done to a checkbox to bring it into a desired state.
type Action int

const (
	ActionNone Action = iota
	ActionClick
)

func (a Action) String() string {
	if a == ActionClick {
		return "click"
	}
	return "none"
}

// CheckboxAction returns ActionClick only when the current state differs from the desired one,
// so applying it never clicks a checkbox into the wrong state.
func CheckboxAction(current, desired bool) Action {
	if current == desired {
		return ActionNone
	}
	return ActionClick
}
