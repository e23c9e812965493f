package study

import "studybuddy/internal/api"

// SessionsLoaded is the result of SessionRegistry.LoadCommand.
type SessionsLoaded struct {
	Sessions []api.Session
	Err      error
}

// SessionDeleted is the result of SessionRegistry.DeleteCommand.
type SessionDeleted struct {
	ID  int
	Err error
}

// SessionCreated is the result of the single create call an UploadWorkflow
// issues before any file upload.
type SessionCreated struct {
	Session api.Session
	Err     error
}

// DocumentUploaded is the result of one candidate's upload. Uploads are
// independent; Err on one never affects the others.
type DocumentUploaded struct {
	Filename string
	Result   api.UploadResponse
	Err      error
}

// ChatReply is the result of a ChatSession send.
type ChatReply struct {
	Response api.ChatResponse
	Err      error
}

// DeckGenerated is the result of a FlashcardDeck generation.
type DeckGenerated struct {
	Response api.FlashcardResponse
	Err      error
}

// SummaryGenerated is the result of a SummaryGenerator run.
type SummaryGenerated struct {
	Response api.SummaryResponse
	Err      error
}

func (SessionsLoaded) studyEvent()   {}
func (SessionDeleted) studyEvent()   {}
func (SessionCreated) studyEvent()   {}
func (DocumentUploaded) studyEvent() {}
func (ChatReply) studyEvent()        {}
func (DeckGenerated) studyEvent()    {}
func (SummaryGenerated) studyEvent() {}
