package model

// Modal names accepted by the toggle-modal action.
const (
	ModalExpense      = "showExpenseModal"
	ModalCategory     = "showCategoryModal"
	ModalBudget       = "showBudgetModal"
	ModalGoal         = "showGoalModal"
	ModalSettings     = "showSettingsModal"
	ModalNotification = "showNotificationModal"
)

// UIState is presentation state. It is persisted for convenience only and
// can always be reset to DefaultUIState.
type UIState struct {
	IsSetupComplete       bool   `json:"isSetupComplete"`
	ActiveView            string `json:"activeView"`
	ShowExpenseModal      bool   `json:"showExpenseModal"`
	ShowCategoryModal     bool   `json:"showCategoryModal"`
	ShowBudgetModal       bool   `json:"showBudgetModal"`
	ShowGoalModal         bool   `json:"showGoalModal"`
	ShowSettingsModal     bool   `json:"showSettingsModal"`
	ShowNotificationModal bool   `json:"showNotificationModal"`
	SearchQuery           string `json:"searchQuery"`
	DateRange             string `json:"dateRange"`
	SelectedCategory      string `json:"selectedCategory"`
	FilterType            string `json:"filterType"`
	EditingTransaction    *ID    `json:"editingTransaction"`
}

// DefaultUIState returns the UI flags of a fresh install.
func DefaultUIState() UIState {
	return UIState{
		ActiveView:       "dashboard",
		DateRange:        "thisMonth",
		SelectedCategory: "all",
		FilterType:       "all",
	}
}

// Modal returns a pointer to the named modal flag, or nil if unknown.
func (u *UIState) Modal(name string) *bool {
	switch name {
	case ModalExpense:
		return &u.ShowExpenseModal
	case ModalCategory:
		return &u.ShowCategoryModal
	case ModalBudget:
		return &u.ShowBudgetModal
	case ModalGoal:
		return &u.ShowGoalModal
	case ModalSettings:
		return &u.ShowSettingsModal
	case ModalNotification:
		return &u.ShowNotificationModal
	default:
		return nil
	}
}
