package models

// WebhookRequest is the part of a Dialogflow fulfillment request we read.
type WebhookRequest struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	QueryText  string         `json:"queryText"`
	Parameters map[string]any `json:"parameters"`
	Intent     Intent         `json:"intent"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// WebhookResponse is the fulfillment reply.
type WebhookResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
}
