package transfer

type ThreadsContainer struct {
	ID string `json:"id"`
}

type ThreadsErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FbtraceID string `json:"fbtrace_id"`
	} `json:"error"`
}
