/*
 * Package results aggregates the votes of a completed game into the
 * trophy-screen payload: medal-tagged leaderboard, competition ranks and
 * the top drawings showcase. Compute is a pure function over loaded rows
 * and never mutates anything.
 */
package results

import (
	"fmt"
	"math"
	"sort"

	game_constants "gartictext/constants/game"
	models "gartictext/models/postgres"
)

const (
	MedalGold   = "gold"
	MedalSilver = "silver"
	MedalBronze = "bronze"
)

// Creator identifies the author of a drawing or caption.
type Creator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CaptionInfo is the top-voted caption attached to a drawing.
type CaptionInfo struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	Votes   int     `json:"votes"`
	Creator Creator `json:"creator"`
}

// TopDrawing is one entry of the showcase list.
type TopDrawing struct {
	DrawingID        string       `json:"drawingId"`
	ImageURL         string       `json:"imageUrl"`
	EnhancedImageURL string       `json:"enhancedImageUrl,omitempty"`
	Votes            int          `json:"votes"`
	VotePercentage   int          `json:"votePercentage"`
	Creator          Creator      `json:"creator"`
	Caption          *CaptionInfo `json:"caption,omitempty"`
}

// BestSubmission is a player's own highest-voted drawing, shown on their
// leaderboard row.
type BestSubmission struct {
	Type             string       `json:"type"`
	ImageID          string       `json:"imageId"`
	ImageURL         string       `json:"imageUrl"`
	EnhancedImageURL string       `json:"enhancedImageUrl,omitempty"`
	Votes            int          `json:"votes"`
	Caption          *CaptionInfo `json:"caption,omitempty"`
}

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	UserID            string          `json:"userId"`
	Username          string          `json:"username"`
	ProfilePictureURL string          `json:"profilePictureUrl,omitempty"`
	TotalVotes        int             `json:"totalVotes"`
	DrawingVotes      int             `json:"drawingVotes"`
	CaptionVotes      int             `json:"captionVotes"`
	VotePercentage    int             `json:"votePercentage"`
	BestSubmission    *BestSubmission `json:"bestSubmission,omitempty"`
	BestVotes         int             `json:"bestVotes"`
	Medal             string          `json:"medal,omitempty"`
	Rank              int             `json:"rank"`
}

// GameResults is the full results payload.
type GameResults struct {
	GameCode    string             `json:"gameCode"`
	Title       string             `json:"title"`
	TotalVotes  int                `json:"totalVotes"`
	TopDrawings []TopDrawing       `json:"topDrawings"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func imageURL(img *models.Image) string {
	return fmt.Sprintf("/api/images/%s/original", img.ID)
}

func enhancedURL(img *models.Image) string {
	if len(img.EnhancedImageData) == 0 {
		return ""
	}
	return fmt.Sprintf("/api/images/%s/enhanced", img.ID)
}

// topCaption picks the highest-voted caption of an image, ties broken by
// original ordering.
func topCaption(img *models.Image) *CaptionInfo {
	if len(img.Captions) == 0 {
		return nil
	}
	best := &img.Captions[0]
	for i := 1; i < len(img.Captions); i++ {
		if img.Captions[i].Votes > best.Votes {
			best = &img.Captions[i]
		}
	}
	return &CaptionInfo{
		ID:    best.ID,
		Text:  best.Text,
		Votes: best.Votes,
		Creator: Creator{
			ID:       best.User.ID,
			Username: best.User.Username,
		},
	}
}

// Compute builds the results payload for a game. images must carry their
// captions (and both their users); ordering of images is preserved for
// tie-breaks.
func Compute(g *models.Game, images []models.Image) GameResults {
	// Per-player vote totals. Votes on a drawing and votes on a caption
	// both credit the person, not the artifact.
	drawingVotes := make(map[string]int)
	captionVotes := make(map[string]int)
	for i := range images {
		drawingVotes[images[i].UserID] += images[i].Votes
		for j := range images[i].Captions {
			captionVotes[images[i].Captions[j].UserID] += images[i].Captions[j].Votes
		}
	}

	players := make([]LeaderboardEntry, 0, len(g.Participants))
	for _, p := range g.Participants {
		entry := LeaderboardEntry{
			UserID:            p.ID,
			Username:          p.Username,
			ProfilePictureURL: p.ProfilePictureURL,
			DrawingVotes:      drawingVotes[p.ID],
			CaptionVotes:      captionVotes[p.ID],
		}
		entry.TotalVotes = entry.DrawingVotes + entry.CaptionVotes
		players = append(players, entry)
	}

	totalVotes := 0
	for i := range players {
		totalVotes += players[i].TotalVotes
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].TotalVotes > players[j].TotalVotes
	})

	// Medal banding over distinct vote values: everyone tied at the top
	// nonzero value is gold, the next distinct value silver, the one
	// after that bronze. Zero votes never medal.
	goldVotes := -1
	silverVotes := -1
	bronzeVotes := -1
	if len(players) > 0 {
		goldVotes = players[0].TotalVotes
	}
	for i := range players {
		p := &players[i]
		p.VotePercentage = percentage(p.TotalVotes, totalVotes)
		if p.TotalVotes == 0 {
			continue
		}
		switch {
		case p.TotalVotes == goldVotes:
			p.Medal = MedalGold
		case silverVotes == -1:
			silverVotes = p.TotalVotes
			p.Medal = MedalSilver
		case p.TotalVotes == silverVotes:
			p.Medal = MedalSilver
		case bronzeVotes == -1:
			bronzeVotes = p.TotalVotes
			p.Medal = MedalBronze
		case p.TotalVotes == bronzeVotes:
			p.Medal = MedalBronze
		}
	}

	// Competition ranking: ties share a rank, the next distinct value
	// skips ahead by the tie group's size.
	currentRank := 1
	prevVotes := -1
	sameRankCount := 0
	for i := range players {
		if i == 0 {
			prevVotes = players[i].TotalVotes
			players[i].Rank = currentRank
			continue
		}
		if players[i].TotalVotes < prevVotes {
			currentRank += sameRankCount + 1
			sameRankCount = 0
		} else {
			sameRankCount++
		}
		prevVotes = players[i].TotalVotes
		players[i].Rank = currentRank
	}

	// Best submission per player: their highest-voted drawing together
	// with its top caption. Images arrive vote-sorted or not; a stable
	// sort here keeps original ordering on ties.
	sorted := make([]*models.Image, len(images))
	for i := range images {
		sorted[i] = &images[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})

	for i := range players {
		for _, img := range sorted {
			if img.UserID != players[i].UserID {
				continue
			}
			players[i].BestSubmission = &BestSubmission{
				Type:             "drawing",
				ImageID:          img.ID,
				ImageURL:         imageURL(img),
				EnhancedImageURL: enhancedURL(img),
				Votes:            img.Votes,
				Caption:          topCaption(img),
			}
			players[i].BestVotes = img.Votes
			break
		}
	}

	top := make([]TopDrawing, 0, game_constants.TopDrawingsCount)
	for _, img := range sorted {
		if len(top) == game_constants.TopDrawingsCount {
			break
		}
		top = append(top, TopDrawing{
			DrawingID:        img.ID,
			ImageURL:         imageURL(img),
			EnhancedImageURL: enhancedURL(img),
			Votes:            img.Votes,
			VotePercentage:   percentage(img.Votes, totalVotes),
			Creator: Creator{
				ID:       img.UserID,
				Username: img.User.Username,
			},
			Caption: topCaption(img),
		})
	}

	return GameResults{
		GameCode:    g.ID,
		Title:       g.Name,
		TotalVotes:  totalVotes,
		TopDrawings: top,
		Leaderboard: players,
	}
}
