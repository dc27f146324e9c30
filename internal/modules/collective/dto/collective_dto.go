package dto

type CreateCollectiveRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"required,max=100,lowercase"`
	Description string `json:"description"`
}

type CreateChannelRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}
