package controllers

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	game_constants "gartictext/constants/game"
	"gartictext/middleware"
	models "gartictext/models/postgres"
	"gartictext/services/game"
	"gartictext/services/poll"
	"gartictext/services/redis"
	"gartictext/utils"
	"gartictext/utils/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gorm.io/gorm"
)

type createGameBody struct {
	Name        string `json:"name" binding:"required"`
	MaxPlayers  int    `json:"maxPlayers"`
	TotalRounds int    `json:"totalRounds"`
}

// @Summary Creates a new game
// @Description Creates a lobby-state game and auto-joins the caller as host. Returns the shareable room code.
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body createGameBody true "Game name and optional settings"
// @Success 201 {object} object{code=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/games [post]
// @Security ApiKeyAuth
func CreateGame(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var body createGameBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Game name is required"})
			return
		}
		if err := game.ValidateCreate(body.Name); err != nil {
			utils.AbortWithError(c, err)
			return
		}

		host, err := utils.CheckUserExists(db, hostID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		newGame := models.Game{
			Name:        strings.TrimSpace(body.Name),
			HostID:      host.ID,
			Status:      models.StatusLobby,
			MaxPlayers:  game_constants.DefaultMaxPlayers,
			TotalRounds: game_constants.DefaultTotalRounds,
			DrawingTime: game_constants.DefaultDrawingTime,
			WritingTime: game_constants.DefaultWritingTime,
		}
		if body.MaxPlayers > 0 {
			newGame.MaxPlayers = body.MaxPlayers
		}
		if body.TotalRounds > 0 {
			newGame.TotalRounds = body.TotalRounds
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&newGame).Error; err != nil {
				return err
			}
			// Host is always a participant
			return tx.Model(&newGame).Association("Participants").Append(host)
		})
		if err != nil {
			logger.Errorf("failed to create game: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating game"})
			return
		}

		poll.Refresh(rc, &newGame)
		c.JSON(http.StatusCreated, gin.H{"code": newGame.ID})
	}
}

type joinAnonBody struct {
	PlayerName string `json:"playerName" binding:"required"`
}

func joinLoadedGame(db *gorm.DB, rc *redis.RedisClient, g *models.Game, user *models.User) error {
	prev := g.UpdateNumber
	if err := game.Join(g, user); err != nil {
		return err
	}
	return persistGame(db, rc, g, prev, func(tx *gorm.DB) error {
		return tx.Model(&models.Game{ID: g.ID}).Association("Participants").Append(user)
	})
}

// @Summary Joins a game as an authenticated user
// @Description Adds the caller to the roster of a lobby-state game
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param gameId path string true "Room code"
// @Success 200 {object} object{message=string,currentUpdate=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/games/join/{gameId}/auth [put]
// @Security ApiKeyAuth
func JoinGameAuth(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := utils.CheckUserExists(db, userID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		if err := joinLoadedGame(db, rc, g, user); err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "joined game successfully",
			"currentUpdate": poll.Token(g.ID, g.UpdateNumber),
		})
	}
}

// @Summary Joins a game as a guest
// @Description Synthesizes a throwaway user for the given player name and adds it to the roster. The returned userId must be persisted by the client.
// @Tags games
// @Accept json
// @Produce json
// @Param gameId path string true "Room code"
// @Param body body joinAnonBody true "Display name"
// @Success 200 {object} object{message=string,userId=string,currentUpdate=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/games/join/{gameId}/nauth [put]
func JoinGameAnon(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body joinAnonBody
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.PlayerName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerName is required"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		guestID := uuid.NewString()
		guest := models.User{
			ID:       guestID,
			Username: strings.TrimSpace(body.PlayerName),
			Email:    guestID + game_constants.AnonEmailDomain,
		}

		// Guard against the roster first so a duplicate name never leaves
		// an orphaned guest row behind.
		prev := g.UpdateNumber
		if err := game.Join(g, &guest); err != nil {
			utils.AbortWithError(c, err)
			return
		}

		err = persistGame(db, rc, g, prev, func(tx *gorm.DB) error {
			if err := tx.Create(&guest).Error; err != nil {
				if strings.Contains(err.Error(), "duplicate") {
					return game.ErrNameTaken
				}
				return err
			}
			return tx.Model(&models.Game{ID: g.ID}).Association("Participants").Append(&guest)
		})
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		session := sessions.Default(c)
		session.Set(middleware.GuestSessionKey, guest.ID)
		if err := session.Save(); err != nil {
			logger.Warnf("failed to save guest session: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "joined game successfully",
			"userId":        guest.ID,
			"currentUpdate": poll.Token(g.ID, g.UpdateNumber),
		})
	}
}

func leaveLoadedGame(db *gorm.DB, rc *redis.RedisClient, g *models.Game, userID string) error {
	prev := g.UpdateNumber
	hostLeft, err := game.Leave(g, userID)
	if err != nil {
		return err
	}

	if hostLeft {
		// No host migration: the host leaving tears the game down and
		// cascades its artifacts away.
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Game{ID: g.ID}).Association("Participants").Clear(); err != nil {
				return err
			}
			return tx.Delete(&models.Game{ID: g.ID}).Error
		}); err != nil {
			return err
		}
		poll.Forget(rc, g.ID)
		return nil
	}

	return persistGame(db, rc, g, prev, func(tx *gorm.DB) error {
		return tx.Model(&models.Game{ID: g.ID}).Association("Participants").Delete(&models.User{ID: userID})
	})
}

// @Summary Leaves a game (authenticated)
// @Description Removes the caller from the roster. If the caller is the host the whole game is destroyed.
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param gameId path string true "Room code"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/games/leave/{gameId}/auth [put]
// @Security ApiKeyAuth
func LeaveGameAuth(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		if err := leaveLoadedGame(db, rc, g, userID); err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "left game successfully"})
	}
}

type leaveAnonBody struct {
	UserID string `json:"userId" binding:"required"`
}

// @Summary Leaves a game (guest)
// @Description Removes the guest identified by the body userId from the roster
// @Tags games
// @Accept json
// @Produce json
// @Param gameId path string true "Room code"
// @Param body body leaveAnonBody true "Guest user id"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/games/leave/{gameId}/nauth [put]
func LeaveGameAnon(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body leaveAnonBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		if err := leaveLoadedGame(db, rc, g, body.UserID); err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "left game successfully"})
	}
}

type updateGameBody struct {
	MaxPlayers   *int    `json:"maxPlayers"`
	Rounds       *int    `json:"rounds"`
	DrawingTime  *int    `json:"drawingTime"`
	WritingTime  *int    `json:"writingTime"`
	PromptString *string `json:"promptString"`
}

// @Summary Updates a game
// @Description Host-only settings change, or (when promptString is supplied) the round's prompt submission which moves prompting to drawing
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param gameId path string true "Room code"
// @Param body body updateGameBody true "Settings patch or prompt"
// @Success 200 {object} object{message=string,currentUpdate=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/games/{gameId} [put]
// @Security ApiKeyAuth
func UpdateGame(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var body updateGameBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		prev := g.UpdateNumber
		if body.PromptString != nil {
			err = game.SubmitPrompt(g, *body.PromptString)
		} else {
			err = game.ApplySettings(g, userID, game.SettingsPatch{
				MaxPlayers:  body.MaxPlayers,
				TotalRounds: body.Rounds,
				DrawingTime: body.DrawingTime,
				WritingTime: body.WritingTime,
			})
		}
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		if err := persistGame(db, rc, g, prev, nil); err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "game updated",
			"currentUpdate": poll.Token(g.ID, g.UpdateNumber),
		})
	}
}

// @Summary Starts a game
// @Description Host-only. Picks a random prompter and moves lobby to prompting.
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param gameId path string true "Room code"
// @Success 200 {object} object{message=string,prompterId=string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/games/{gameId}/start [put]
// @Security ApiKeyAuth
func StartGame(db *gorm.DB, rc *redis.RedisClient, rng *rand.Rand) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		prev := g.UpdateNumber
		if err := game.Start(g, userID, rng); err != nil {
			utils.AbortWithError(c, err)
			return
		}

		if err := persistGame(db, rc, g, prev, nil); err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "game started",
			"prompterId": g.PrompterID,
		})
	}
}

// @Summary Ends a game
// @Description Marks the game completed regardless of its current state
// @Tags games
// @Produce json
// @Param gameId path string true "Room code"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/games/{gameId}/end [post]
func EndGame(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		prev := g.UpdateNumber
		alreadyCompleted := game.End(g)

		err = persistGame(db, rc, g, prev, func(tx *gorm.DB) error {
			// Counters bump once per game; re-ending a completed game
			// must not inflate them.
			if alreadyCompleted || len(g.Participants) == 0 {
				return nil
			}
			ids := make([]string, len(g.Participants))
			for i, p := range g.Participants {
				ids[i] = p.ID
			}
			return tx.Model(&models.User{}).Where("id IN ?", ids).
				UpdateColumn("games_played", gorm.Expr("games_played + 1")).Error
		})
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "game completed"})
	}
}

// @Summary Lists joinable games
// @Description Filters lobby-state games by name, maxPlayers and rounds; hideFull drops rooms at capacity
// @Tags games
// @Produce json
// @Param name query string false "Name substring"
// @Param maxPlayers query int false "Exact max players"
// @Param rounds query int false "Exact total rounds"
// @Param hideFull query bool false "Hide full rooms"
// @Success 200 {array} object{code=string,name=string,players=integer,maxPlayers=integer,isFull=boolean}
// @Failure 500 {object} object{error=string}
// @Router /api/games/query [get]
func QueryGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Participants").Where("status = ?", models.StatusLobby)

		if name := c.Query("name"); name != "" {
			query = query.Where("name ILIKE ?", "%"+name+"%")
		}
		if mp := c.Query("maxPlayers"); mp != "" {
			if v, err := strconv.Atoi(mp); err == nil {
				query = query.Where("max_players = ?", v)
			}
		}
		if rounds := c.Query("rounds"); rounds != "" {
			if v, err := strconv.Atoi(rounds); err == nil {
				query = query.Where("total_rounds = ?", v)
			}
		}

		var lobbyGames []models.Game
		if err := query.Find(&lobbyGames).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying games"})
			return
		}

		hideFull := c.Query("hideFull") == "true"
		list := make([]gin.H, 0, len(lobbyGames))
		for i := range lobbyGames {
			g := &lobbyGames[i]
			isFull := len(g.Participants) >= g.MaxPlayers
			if hideFull && isFull {
				continue
			}
			list = append(list, gin.H{
				"code":        g.ID,
				"name":        g.Name,
				"players":     len(g.Participants),
				"maxPlayers":  g.MaxPlayers,
				"rounds":      g.TotalRounds,
				"drawingTime": g.DrawingTime,
				"writingTime": g.WritingTime,
				"isFull":      isFull,
			})
		}

		c.JSON(http.StatusOK, list)
	}
}

// @Summary Polls lobby state
// @Description Version-gated: answers {"message":"good"} while the client token is current, otherwise the full lobby snapshot with a fresh token
// @Tags games
// @Produce json
// @Param gameId path string true "Room code"
// @Param version query string false "Client's last-known version token"
// @Success 200 {object} poll.LobbySnapshot
// @Failure 404 {object} object{error=string}
// @Router /api/games/{gameId}/lobbyInfo [get]
func LobbyInfo(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("gameId")
		clientToken := c.Query("version")

		// Fast path straight from the redis mirror: an up-to-date client
		// never costs a Postgres read.
		if poll.FastPathCurrent(rc, code, clientToken) {
			c.JSON(http.StatusOK, gin.H{"message": poll.UnchangedMessage})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, code)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		poll.Refresh(rc, g)

		if poll.Current(g, clientToken) {
			c.JSON(http.StatusOK, gin.H{"message": poll.UnchangedMessage})
			return
		}

		// Snapshot carries the status; a client that sees it advanced
		// past lobby navigates to the next screen.
		c.JSON(http.StatusOK, poll.NewLobbySnapshot(g))
	}
}

// @Summary Polls prompting state
// @Description Version-gated: answers {"message":"good"} while current, otherwise the prompter, status and a fresh token
// @Tags games
// @Produce json
// @Param gameId path string true "Room code"
// @Param version query string false "Client's last-known version token"
// @Success 200 {object} poll.PromptSnapshot
// @Failure 404 {object} object{error=string}
// @Router /api/games/{gameId}/promptInfo [get]
func PromptInfo(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("gameId")
		clientToken := c.Query("version")

		if poll.FastPathCurrent(rc, code, clientToken) {
			c.JSON(http.StatusOK, gin.H{"message": poll.UnchangedMessage})
			return
		}

		g, err := utils.CheckGameExists(db, code)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		poll.Refresh(rc, g)

		if poll.Current(g, clientToken) {
			c.JSON(http.StatusOK, gin.H{"message": poll.UnchangedMessage})
			return
		}

		c.JSON(http.StatusOK, poll.NewPromptSnapshot(g))
	}
}

// @Summary Fetches a game snapshot
// @Description Full lobby snapshot regardless of version token
// @Tags games
// @Produce json
// @Param gameId path string true "Room code"
// @Success 200 {object} poll.LobbySnapshot
// @Failure 404 {object} object{error=string}
// @Router /api/games/{gameId} [get]
func GetGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, poll.NewLobbySnapshot(g))
	}
}
