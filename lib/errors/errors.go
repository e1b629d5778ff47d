package errors

// Storage errors
var (
	StorageRecordDoesNotExist  = NewError(100, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(101, "record already exists in storage")
	StorageCoreError           = NewError(102, "storage error")
)

// Amount arithmetic errors
var (
	MaximumBalanceReached   = NewError(110, "reached maximum balance")
	AccountBalanceUnderZero = NewError(111, "account balance cannot be negative")
)

// Authorization errors
var (
	NotAuthorized = NewError(120, "caller is not authorized for this operation")
)

// Validation errors
var (
	AmountUnderflow        = NewError(130, "amount must be greater than zero")
	InvalidAddress         = NewError(131, "address is empty or malformed")
	ArrayLengthMismatch    = NewError(132, "input arrays must have equal length")
	BadRequestParameter    = NewError(133, "found invalid request parameter")
	EmptyReason            = NewError(134, "reason must not be empty")
	FeeRateOutOfRange      = NewError(135, "fee rate is out of the allowed range")
	ReleaseTimeNotInFuture = NewError(136, "release time must be in the future")
	InvalidVotingDuration  = NewError(137, "voting duration must be greater than zero")
)

// Escrow errors
var (
	EscrowAlreadyActive          = NewError(140, "an active escrow already exists for this account")
	EscrowDoesNotExist           = NewError(141, "no active escrow exists for this account")
	EscrowNotYetReleasable       = NewError(142, "escrow is not yet releasable")
	InsufficientAvailableBalance = NewError(143, "insufficient available balance for vote")
	InsufficientLockedBalance    = NewError(144, "locked balance is less than the requested amount")
	LedgerNotPaused              = NewError(145, "ledger must be paused for this operation")
	LedgerPaused                 = NewError(146, "ledger is paused")
	NoRecoverableSurplus         = NewError(147, "no surplus to recover")
)

// Voting period errors
var (
	VotingPeriodAlreadyActive = NewError(150, "a voting period is already active")
	VotingPeriodNotActive     = NewError(151, "voting is not active")
)

// Vote ledger errors
var (
	AlreadyVotedForItem              = NewError(160, "account has already voted for this item")
	ItemDoesNotExist                 = NewError(161, "item does not exist")
	ItemNotActive                    = NewError(162, "item is not active")
	ItemAlreadyExists                = NewError(163, "item already exists")
	NoVoteForItem                    = NewError(164, "account has no vote for this item")
	NoRemainingVotes                 = NewError(165, "no remaining votes to withdraw")
	WithdrawalRestricted             = NewError(166, "withdrawals are restricted near the end of the voting period")
	WithdrawalAmountExceedsRemaining = NewError(167, "withdrawal amount exceeds remaining votes")
)

// Invariant guards; these must never trigger under a correct calling sequence
var (
	InsufficientCustodianBalance = NewError(170, "custodian balance is insufficient for transfer")
	CommitmentExceedsLocked      = NewError(171, "committed amount exceeds locked amount")
)
