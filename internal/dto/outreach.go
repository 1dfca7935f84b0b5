package dto

// BulkOutreachRequest is the payload for the bulk outreach endpoint.
type BulkOutreachRequest struct {
	BusinessIDs []int  `json:"businessIds"`
	Template    string `json:"template"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	SenderEmail string `json:"senderEmail"`
	SenderName  string `json:"senderName"`
}

// OutreachResult reports the delivery attempt for one business.
type OutreachResult struct {
	BusinessID int    `json:"businessId"`
	Business   string `json:"business"`
	Method     string `json:"method"`
	Details    string `json:"details"`
}

// OutreachSummary aggregates a whole dispatch run.
type OutreachSummary struct {
	EmailSuccessCount int              `json:"emailSuccessCount"`
	SMSSuccessCount   int              `json:"smsSuccessCount"`
	FailureCount      int              `json:"failureCount"`
	TotalProcessed    int              `json:"totalProcessed"`
	Results           []OutreachResult `json:"results"`
	Message           string           `json:"message"`
}
