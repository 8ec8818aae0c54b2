package game_constants

import "time"

const DefaultMaxPlayers = 8
const DefaultTotalRounds = 3
const DefaultDrawingTime = 60 // seconds
const DefaultWritingTime = 60 // seconds

// Clients poll lobbyInfo/promptInfo on this interval; the server never
// pushes.
const PollInterval = 3 * time.Second

// Anonymous accounts are synthesized with this email domain; the cleanup
// sweep matches on it.
const AnonEmailDomain = "@gartictext.com"

const DefaultAnonUserTTL = 2 * time.Hour
const DefaultCleanupInterval = 30 * time.Minute

// How many drawings the results screen showcases.
const TopDrawingsCount = 5
