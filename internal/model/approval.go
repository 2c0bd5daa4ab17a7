package model

// DecisionStatus is the outcome an approver selects for an article.
type DecisionStatus string

const (
	DecisionApproved DecisionStatus = "APPROVED"
	DecisionRejected DecisionStatus = "REJECTED"
)

// ApprovalDecision is one entry of an article's append-only approval
// history. The client only reads these; new entries are appended through
// the approval-processing endpoint.
type ApprovalDecision struct {
	ArticleID        int64          `json:"articleId,omitempty"`
	ApproverUsername string         `json:"approverUsername"`
	RoleName         string         `json:"roleName"`
	Status           DecisionStatus `json:"status"`
	Comments         string         `json:"comments,omitempty"`
	Timestamp        string         `json:"timestamp,omitempty"`
}

// ApprovalRequest is the payload submitted when an approver decides on an
// article. Comments must be left empty (omitted on the wire) rather than
// sent as an empty string when the approver provided none.
type ApprovalRequest struct {
	ArticleID int64          `json:"articleId"`
	Status    DecisionStatus `json:"status"`
	Comments  string         `json:"comments,omitempty"`
}

// ApprovalOutcome is what the backend reports after processing a decision.
// Both fields are optional; their absence means the backend did not
// recompute them for this call.
type ApprovalOutcome struct {
	CurrentApprovalPercentage *float64 `json:"currentApprovalPercentage,omitempty"`
	ArticleStatus             string   `json:"articleStatus,omitempty"`
}
