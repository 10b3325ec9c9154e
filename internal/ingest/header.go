package ingest

import "strings"

// Role names the purpose of a statement column.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleAmount      Role = "amount"
	RoleBalance     Role = "balance"
	RoleDebit       Role = "debit"
	RoleCredit      Role = "credit"
)

// headerRule maps a role to a predicate over lowercased header text. The
// rules form an ordered table rather than a conditional chain so new bank
// formats only need a predicate tweak.
type headerRule struct {
	role  Role
	match func(header string) bool
}

func containsAny(header string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

var headerRules = []headerRule{
	{RoleDate, func(h string) bool {
		return strings.Contains(h, "date")
	}},
	{RoleDescription, func(h string) bool {
		return containsAny(h, "description", "narration", "details", "reference")
	}},
	{RoleAmount, func(h string) bool {
		return strings.Contains(h, "amount") && !strings.Contains(h, "balance")
	}},
	{RoleBalance, func(h string) bool {
		return strings.Contains(h, "balance")
	}},
	{RoleDebit, func(h string) bool {
		return containsAny(h, "debit", "withdrawal")
	}},
	{RoleCredit, func(h string) bool {
		return containsAny(h, "credit", "deposit")
	}},
}

// Layout holds the resolved column index per role; -1 means the role was
// not found in the header.
type Layout struct {
	Date        int
	Description int
	Amount      int
	Balance     int
	Debit       int
	Credit      int
}

// UsesDebitCredit reports whether amounts come from a debit/credit column
// pair rather than a single signed amount column. The amount column takes
// precedence when both are present.
func (l Layout) UsesDebitCredit() bool {
	return l.Amount < 0 && l.Debit >= 0 && l.Credit >= 0
}

// InferLayout matches each header field against the rule table,
// case-insensitively, first match per role wins. Roles are evaluated
// independently: one header cell may satisfy several roles.
func InferLayout(headers []string) Layout {
	layout := Layout{Date: -1, Description: -1, Amount: -1, Balance: -1, Debit: -1, Credit: -1}

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		for _, rule := range headerRules {
			if !rule.match(h) {
				continue
			}
			switch rule.role {
			case RoleDate:
				if layout.Date < 0 {
					layout.Date = i
				}
			case RoleDescription:
				if layout.Description < 0 {
					layout.Description = i
				}
			case RoleAmount:
				if layout.Amount < 0 {
					layout.Amount = i
				}
			case RoleBalance:
				if layout.Balance < 0 {
					layout.Balance = i
				}
			case RoleDebit:
				if layout.Debit < 0 {
					layout.Debit = i
				}
			case RoleCredit:
				if layout.Credit < 0 {
					layout.Credit = i
				}
			}
		}
	}

	return layout
}
