package resource

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLEscrows            = APIPrefix + APIVersionV1 + "/escrows/{id}"
	URLItems              = APIPrefix + APIVersionV1 + "/items"
	URLItem               = APIPrefix + APIVersionV1 + "/items/{id}"
	URLItemStats          = APIPrefix + APIVersionV1 + "/items/{id}/stats"
	URLAccountVotes       = APIPrefix + APIVersionV1 + "/accounts/{id}/votes"
	URLAccountWithdrawals = APIPrefix + APIVersionV1 + "/accounts/{id}/withdrawals"
	URLVotingPeriod       = APIPrefix + APIVersionV1 + "/voting-period"
)
