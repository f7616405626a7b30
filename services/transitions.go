package services

import (
	"payroll-compliance-api/models"
)

// Channel identifiers for the two government submission workflows.
const (
	ChannelMudad = models.LogEntityMudad
	ChannelWPS   = models.LogEntityWPS
)

// mudadTransitions is the complete adjacency table for the Mudad workflow.
// Every status appears as a key; terminal statuses map to an empty slice.
var mudadTransitions = map[string][]string{
	models.MudadStatusPending:   {models.MudadStatusPrepared},
	models.MudadStatusPrepared:  {models.MudadStatusSubmitted, models.MudadStatusResubmitRequired},
	models.MudadStatusSubmitted: {models.MudadStatusAccepted, models.MudadStatusRejected, models.MudadStatusResubmitRequired},
	models.MudadStatusAccepted:  {},
	models.MudadStatusRejected:  {models.MudadStatusResubmitted},
	models.MudadStatusResubmitted: {
		models.MudadStatusAccepted,
		models.MudadStatusRejected,
	},
	models.MudadStatusResubmitRequired: {models.MudadStatusPrepared, models.MudadStatusSubmitted},
}

// wpsTransitions is the complete adjacency table for the WPS workflow.
// DOWNLOADED -> GENERATED covers file regeneration, FAILED -> GENERATED retry.
var wpsTransitions = map[string][]string{
	models.WPSStatusGenerated:  {models.WPSStatusDownloaded, models.WPSStatusFailed},
	models.WPSStatusDownloaded: {models.WPSStatusSubmitted, models.WPSStatusGenerated},
	models.WPSStatusSubmitted:  {models.WPSStatusProcessing, models.WPSStatusFailed},
	models.WPSStatusProcessing: {models.WPSStatusProcessed, models.WPSStatusFailed},
	models.WPSStatusProcessed:  {},
	models.WPSStatusFailed:     {models.WPSStatusGenerated},
}

var transitionTables = map[string]map[string][]string{
	ChannelMudad: mudadTransitions,
	ChannelWPS:   wpsTransitions,
}

// initialStatuses maps each channel to the status a submission starts in.
var initialStatuses = map[string]string{
	ChannelMudad: models.MudadStatusPending,
	ChannelWPS:   models.WPSStatusGenerated,
}

// InitialStatus returns the creation status for a channel.
func InitialStatus(channel string) string {
	return initialStatuses[channel]
}

// IsKnownStatus reports whether status exists in the channel's table.
func IsKnownStatus(channel, status string) bool {
	table, ok := transitionTables[channel]
	if !ok {
		return false
	}
	_, ok = table[status]
	return ok
}

// AllowedNextStatuses returns the legal targets from the given status.
// The returned slice is a copy; callers may mutate it freely.
func AllowedNextStatuses(channel, from string) []string {
	table, ok := transitionTables[channel]
	if !ok {
		return nil
	}
	next, ok := table[from]
	if !ok {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsLegalTransition reports whether from -> to is in the channel's table.
// It performs no I/O; legality is a pure lookup.
func IsLegalTransition(channel, from, to string) bool {
	table, ok := transitionTables[channel]
	if !ok {
		return false
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether the status has no outgoing transitions.
func IsTerminalStatus(channel, status string) bool {
	table, ok := transitionTables[channel]
	if !ok {
		return false
	}
	next, ok := table[status]
	return ok && len(next) == 0
}

// validateTransition returns nil when from -> to is legal, otherwise an
// *IllegalTransitionError naming every legal alternative.
func validateTransition(channel, from, to string) error {
	if IsLegalTransition(channel, from, to) {
		return nil
	}
	return &IllegalTransitionError{
		Channel: channel,
		From:    from,
		To:      to,
		Allowed: AllowedNextStatuses(channel, from),
	}
}
