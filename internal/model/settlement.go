package model

// SettlementState is the per-auction settlement lifecycle as seen by one
// session. Paid is terminal; Failed returns to PayableUnpaid with the same
// request key so a retry cannot double-charge if the lost attempt actually
// landed server-side.
type SettlementState string

const (
	SettlementIneligible    SettlementState = "ineligible"
	SettlementPayableUnpaid SettlementState = "payable_unpaid"
	SettlementPaying        SettlementState = "paying"
	SettlementPaid          SettlementState = "paid"
	SettlementFailed        SettlementState = "failed"
)
