package i18n

// Message keys used by the synchronization layer.
const (
	KeySessionUpdatedSelf  = "session.updated.self"
	KeySessionUpdatedOther = "session.updated.other"
	KeySessionLeft         = "session.left"
	KeyIdentityCleared     = "identity.cleared"
)

var catalogs = map[string]map[string]string{
	"en-US": {
		KeySessionUpdatedSelf:  "You updated the session",
		KeySessionUpdatedOther: "{{.Name}} updated the session",
		KeySessionLeft:         "You left the session",
		KeyIdentityCleared:     "Your participant selection is no longer valid, pick one again",
	},
	"pt-BR": {
		KeySessionUpdatedSelf:  "Você atualizou a sessão",
		KeySessionUpdatedOther: "{{.Name}} atualizou a sessão",
		KeySessionLeft:         "Você saiu da sessão",
		KeyIdentityCleared:     "Sua seleção de participante não é mais válida, escolha novamente",
	},
}
