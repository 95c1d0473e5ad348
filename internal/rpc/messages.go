package rpc

// Wire representations. Monetary amounts travel as decimal strings and are
// parsed and normalized by the money package on the way in.

// User is the wire representation of an account.
type User struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PaypalEmail string `json:"paypal_email,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// Household is the wire representation of a household.
type Household struct {
	Id        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	MemberIds []string `json:"member_ids"`
	CreatedAt int64    `json:"created_at"`
}

// Member pairs a member ID with its resolved display name.
type Member struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Item is the wire representation of a shopping item.
type Item struct {
	Id          string `json:"id"`
	HouseholdId string `json:"household_id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Cost        string `json:"cost"`
	AddedBy     string `json:"added_by"`
	Purchased   bool   `json:"purchased"`
	Split       bool   `json:"split"`
	Pinned      bool   `json:"pinned"`
	AddedAt     int64  `json:"added_at"`
	PurchasedAt *int64 `json:"purchased_at,omitempty"`
}

// ItemDetail is one captured line item on a debt record.
type ItemDetail struct {
	Name string `json:"name"`
	Cost string `json:"cost"`
}

// Repayment is one entry in a debt record's repayment history.
type Repayment struct {
	Amount    string `json:"amount"`
	Method    string `json:"method"`
	CreatedAt int64  `json:"created_at"`
}

// DebtRecord is the wire representation of a ledger entry.
type DebtRecord struct {
	Id              string       `json:"id"`
	HouseholdId     string       `json:"household_id"`
	OwedBy          string       `json:"owed_by"`
	OwedTo          string       `json:"owed_to"`
	Amount          string       `json:"amount"`
	RepaymentAmount string       `json:"repayment_amount"`
	Status          string       `json:"status"`
	Items           []ItemDetail `json:"items,omitempty"`
	Repayments      []Repayment  `json:"repayments,omitempty"`
	CreatedAt       int64        `json:"created_at"`
	LastUpdated     int64        `json:"last_updated"`
}

// NetBalance is one simplified pairwise balance.
type NetBalance struct {
	OwedBy         string `json:"owed_by"`
	OwedTo         string `json:"owed_to"`
	OwedByUsername string `json:"owed_by_username"`
	OwedToUsername string `json:"owed_to_username"`
	Amount         string `json:"amount"`
}

// Transaction is one entry in the projected activity feed.
type Transaction struct {
	Kind        string `json:"kind"`
	RecordId    string `json:"record_id"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	Method      string `json:"method,omitempty"`
	OwedBy      string `json:"owed_by"`
	OwedTo      string `json:"owed_to"`
	OwedByName  string `json:"owed_by_name"`
	OwedToName  string `json:"owed_to_name"`
	Date        int64  `json:"date"`
}

// Auth messages.

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	PaypalEmail string `json:"paypal_email,omitempty"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Household messages.

type CreateHouseholdRequest struct {
	Name      string   `json:"name"`
	MemberIds []string `json:"member_ids,omitempty"`
}

type CreateHouseholdResponse struct {
	Household *Household `json:"household"`
}

type GetHouseholdRequest struct {
	HouseholdId string `json:"household_id"`
}

type GetHouseholdResponse struct {
	Household *Household `json:"household"`
	Members   []Member   `json:"members"`
}

type AddMembersRequest struct {
	HouseholdId string   `json:"household_id"`
	MemberIds   []string `json:"member_ids"`
}

type AddMembersResponse struct {
	Household *Household `json:"household"`
}

type ListHouseholdsRequest struct{}

type ListHouseholdsResponse struct {
	Households []*Household `json:"households"`
}

// Shopping messages.

type AddItemRequest struct {
	HouseholdId string `json:"household_id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
}

type AddItemResponse struct {
	Item *Item `json:"item"`
}

type ListItemsRequest struct {
	HouseholdId string `json:"household_id"`
	// SplitCandidatesOnly restricts the result to purchased, unsplit items.
	SplitCandidatesOnly bool `json:"split_candidates_only,omitempty"`
}

type ListItemsResponse struct {
	Items []*Item `json:"items"`
}

type MarkPurchasedRequest struct {
	ItemId string `json:"item_id"`
	Cost   string `json:"cost"`
}

type MarkPurchasedResponse struct {
	Item *Item `json:"item"`
}

type SetPinnedRequest struct {
	ItemId string `json:"item_id"`
	Pinned bool   `json:"pinned"`
}

type SetPinnedResponse struct {
	Item *Item `json:"item"`
}

// Ledger messages.

type SplitItemsRequest struct {
	HouseholdId string   `json:"household_id"`
	ItemIds     []string `json:"item_ids"`
	MemberIds   []string `json:"member_ids"`
	// CustomAmounts optionally assigns owed amounts per member ID,
	// including the acting user's own (implicit) share. Empty means equal
	// split.
	CustomAmounts map[string]string `json:"custom_amounts,omitempty"`
}

type SplitItemsResponse struct {
	Records []*DebtRecord `json:"records"`
}

type ListDebtsRequest struct {
	HouseholdId string `json:"household_id"`
	// OwedBy/OwedTo optionally restrict to one ordered pair; both or
	// neither must be set.
	OwedBy string `json:"owed_by,omitempty"`
	OwedTo string `json:"owed_to,omitempty"`
}

type ListDebtsResponse struct {
	Records []*DebtRecord `json:"records"`
}

type GetNetBalancesRequest struct {
	HouseholdId string `json:"household_id"`
}

type GetNetBalancesResponse struct {
	Balances []*NetBalance `json:"balances"`
}

type ListTransactionsRequest struct {
	HouseholdId string `json:"household_id"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type RecordCashPaymentRequest struct {
	HouseholdId string `json:"household_id"`
	PayeeId     string `json:"payee_id"`
	Amount      string `json:"amount"`
}

type RecordCashPaymentResponse struct{}

type StartPayPalPaymentRequest struct {
	HouseholdId string `json:"household_id"`
	PayeeId     string `json:"payee_id"`
	Amount      string `json:"amount"`
}

type StartPayPalPaymentResponse struct {
	SessionId   string `json:"session_id"`
	RedirectUrl string `json:"redirect_url"`
}

type CompletePayPalPaymentRequest struct {
	SessionId string `json:"session_id"`
	// ReturnUrl is the final URL the embedded browser view landed on.
	ReturnUrl string `json:"return_url"`
}

type CompletePayPalPaymentResponse struct {
	// Outcome is "success", "cancel", or "error". Debts are only mutated on
	// success.
	Outcome string `json:"outcome"`
}
