package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCamera     = "\uf030"     // nf-fa-camera
	IconImage      = "\uf03e"     // nf-fa-image
	IconComment    = "\uf075"     // nf-fa-comment
	IconPaperPlane = "\uf1d8"     // nf-fa-paper_plane
	IconFeedback   = "\U000F0B7A" // nf-md-message_alert
)

// Notification level icons
var (
	IconNotifyInfo    = "\uf05a" // nf-fa-info_circle
	IconNotifyWarning = "\uf071" // nf-fa-warning
	IconNotifyError   = "\uf057" // nf-fa-times_circle
)
