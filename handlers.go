package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"warboard/models"
	"warboard/pkg/screenshot"
	"warboard/repository"
)

func setupRoutes(r *gin.Engine, ex *extractor) {
	r.POST("/login", loginHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.POST("/submissions", submitHandler(ex))
	authGroup.PATCH("/submissions/:id", amendSubmissionHandler)
	authGroup.GET("/leaderboard", leaderboardHandler)
	authGroup.GET("/dates", datesHandler)
	authGroup.GET("/guilds", searchGuildsHandler)
	authGroup.GET("/guilds/:id/history", guildHistoryHandler)
	authGroup.GET("/guilds/:id/kudos", kudosHistoryHandler)
	authGroup.POST("/guilds/:id/kudos", giveKudosHandler)
	authGroup.GET("/opponents", searchOpponentsHandler)
	authGroup.GET("/opponents/history", opponentHistoryHandler)

	staff := authGroup.Group("")
	staff.Use(requireStaff())
	staff.POST("/users", createUserHandler)
	staff.POST("/guilds", registerGuildHandler)
	staff.PATCH("/guilds/:id/name", renameGuildHandler)
	staff.PATCH("/guilds/:id/server", setGuildServerHandler)
	staff.DELETE("/guilds/:id", deleteGuildHandler)
	staff.POST("/members", registerMemberHandler)
	staff.POST("/members/purge", purgeMembersHandler)
	staff.GET("/submissions/missing", missingSubmissionsHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		staff, _ := claims["staff"].(bool)
		c.Set("username", username)
		c.Set("staff", staff)
		c.Next()
	}
}

func requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("staff") {
			c.JSON(http.StatusForbidden, gin.H{"error": "staff permission required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"staff":    user.Staff,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString})
}

func createUserHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Staff    bool   `json:"staff"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password, req.Staff); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

// readFormFile loads one uploaded screenshot into memory.
func readFormFile(c *gin.Context, name string) ([]byte, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// submitHandler turns a war-log + league screenshot pair into a stored
// submission for the sender's guild.
func submitHandler(ex *extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.PostForm("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		guildID, err := store.Members.GuildOf(userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "you're not registered in any guild, register first"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		guild, err := store.Guilds.ByID(guildID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}

		war, err := readFormFile(c, "war")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "war screenshot is required"})
			return
		}
		league, err := readFormFile(c, "league")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "league screenshot is required"})
			return
		}

		warFields, leagueFields, err := ex.extract(war, league)
		if err != nil {
			log.Printf("extraction failed for user %d: %v", userID, err)
			saveFailedPair(war, league)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to read screenshots, make sure you added them in the right order"})
			return
		}

		sub := &models.Submission{
			GuildID:        guildID,
			Date:           warFields.Date.Ptr(),
			PointsScored:   warFields.PointsScored.Ptr(),
			OpponentServer: warFields.OpponentServer.Ptr(),
			OpponentGuild:  warFields.OpponentGuild.Ptr(),
			OpponentScored: warFields.OpponentScored.Ptr(),
			TotalPoints:    leagueFields.TotalPoints.Ptr(),
			League:         leagueFields.League.Ptr(),
			Division:       leagueFields.Division.Ptr(),
			SubmittedBy:    userID,
		}
		id, err := store.Submissions.Upsert(sub)
		if err != nil {
			log.Printf("upsert failed for user %d: %v", userID, err)
			saveFailedPair(war, league)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store submission"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id": id,
			"fields": gin.H{
				"server_number":   guild.ServerNumber,
				"guild_name":      guild.GuildName,
				"opponent_server": sub.OpponentServer,
				"opponent_guild":  sub.OpponentGuild,
				"points_scored":   sub.PointsScored,
				"opponent_scored": sub.OpponentScored,
				"date":            sub.Date,
				"league":          sub.League,
				"division":        sub.Division,
				"total_points":    sub.TotalPoints,
			},
			"unparsed": unparsedFields(warFields, leagueFields),
		})
	}
}

// unparsedFields collects the raw OCR text of fields that failed to parse, so
// the caller can show what the engine actually saw.
func unparsedFields(war *screenshot.WarFields, league *screenshot.LeagueFields) gin.H {
	out := gin.H{}
	put := func(name, raw string, status screenshot.Status) {
		if status == screenshot.StatusUnparsed {
			out[name] = raw
		}
	}
	put("points_scored", war.PointsScored.Raw, war.PointsScored.Status)
	put("opponent_server", war.OpponentServer.Raw, war.OpponentServer.Status)
	put("opponent_guild", war.OpponentGuild.Raw, war.OpponentGuild.Status)
	put("opponent_scored", war.OpponentScored.Raw, war.OpponentScored.Status)
	put("date", war.Date.Raw, war.Date.Status)
	put("league", league.League.Raw, league.League.Status)
	put("division", league.Division.Raw, league.Division.Status)
	put("total_points", league.TotalPoints.Raw, league.TotalPoints.Status)
	return out
}

// amendSubmissionHandler applies one corrected field value to a submission.
func amendSubmissionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}
	var req struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	field := repository.Field(req.Field)
	value, err := repository.ParseValue(field, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := store.Submissions.EditField(uint(id), field, value); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		case errors.Is(err, repository.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "failed amending data, the change collided with another submission"})
		default:
			log.Printf("edit submission %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed amending data"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": req.Field, "value": value.String()})
}

func leaderboardHandler(c *gin.Context) {
	var day time.Time
	if v := c.Query("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-mm-dd"})
			return
		}
		day = t
	} else {
		t, err := store.Submissions.LatestDate()
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{"date": nil, "rows": []repository.LeaderboardRow{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		day = t
	}
	rows, err := store.Submissions.Leaderboard(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format("2006-01-02"), "rows": rows})
}

func datesHandler(c *gin.Context) {
	dates, err := store.Submissions.Dates(c.Query("prefix"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, out)
}

func searchGuildsHandler(c *gin.Context) {
	guilds, err := store.Guilds.SearchByName(c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, guilds)
}

// historyWindow resolves the optional since/until/season query params. A
// season value like 2026-08 bounds the window to that calendar month.
func historyWindow(c *gin.Context) (since, until *time.Time, err error) {
	if v := c.Query("season"); v != "" {
		t, perr := time.Parse("2006-01", v)
		if perr != nil {
			return nil, nil, perr
		}
		end := t.AddDate(0, 1, -1)
		return &t, &end, nil
	}
	if v := c.Query("since"); v != "" {
		t, perr := time.Parse("2006-01-02", v)
		if perr != nil {
			return nil, nil, perr
		}
		since = &t
	}
	if v := c.Query("until"); v != "" {
		t, perr := time.Parse("2006-01-02", v)
		if perr != nil {
			return nil, nil, perr
		}
		until = &t
	}
	return since, until, nil
}

func guildHistoryHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild id"})
		return
	}
	since, until, err := historyWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date window"})
		return
	}
	guild, err := store.Guilds.ByID(uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	rows, err := store.Submissions.History(uint(id), since, until)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"guild_name":    guild.GuildName,
		"server_number": guild.ServerNumber,
		"rows":          rows,
	})
}

func searchOpponentsHandler(c *gin.Context) {
	refs, err := store.Submissions.Opponents(c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, refs)
}

// opponentHistoryHandler reports wars where the named guild was the opponent
// of record. Win/loss is flipped here because the stored result belongs to
// the submitting side.
func opponentHistoryHandler(c *gin.Context) {
	name := c.Query("name")
	server, err := strconv.Atoi(c.Query("server"))
	if name == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and server are required"})
		return
	}
	since, until, err := historyWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date window"})
		return
	}
	rows, err := store.Submissions.OpponentHistory(name, server, since, until)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range rows {
		rows[i].Result = flipResult(rows[i].Result)
	}
	c.JSON(http.StatusOK, gin.H{
		"guild_name":    name,
		"server_number": server,
		"rows":          rows,
	})
}

func flipResult(result string) string {
	switch result {
	case "Win":
		return "Loss"
	case "Loss":
		return "Win"
	default:
		return result
	}
}

func registerGuildHandler(c *gin.Context) {
	var req struct {
		GuildName    string `json:"guild_name" binding:"required"`
		ServerNumber int    `json:"server_number" binding:"required"`
		UserID       int64  `json:"user_id" binding:"required"`
		Username     string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guild := &models.Guild{
		GuildName:    req.GuildName,
		ServerNumber: req.ServerNumber,
		UserID:       req.UserID,
		Username:     req.Username,
		RegisteredAt: time.Now(),
		Active:       true,
	}
	created, err := store.Guilds.Add(guild)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"duplicate": true, "message": "guild and server already registered"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"duplicate": false, "id": guild.ID})
}

func renameGuildHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild id"})
		return
	}
	var req struct {
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := store.Guilds.Rename(uint(id), req.NewName); err != nil {
		guildMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "guild renamed"})
}

func setGuildServerHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild id"})
		return
	}
	var req struct {
		NewServer int `json:"new_server" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := store.Guilds.SetServer(uint(id), req.NewServer); err != nil {
		guildMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "guild server updated"})
}

func guildMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "another guild already uses that name and server"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
	}
}

func deleteGuildHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild id"})
		return
	}
	if err := store.Guilds.Delete(uint(id)); err != nil {
		guildMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "guild deleted"})
}

func registerMemberHandler(c *gin.Context) {
	var req struct {
		GuildID  uint   `json:"guild_id" binding:"required"`
		UserID   int64  `json:"user_id" binding:"required"`
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guild, err := store.Guilds.ByID(req.GuildID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guild not found, register the guild first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if err := store.Members.Upsert(req.UserID, req.Username, req.GuildID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "member registered",
		"guild_name":    guild.GuildName,
		"server_number": guild.ServerNumber,
	})
}

func purgeMembersHandler(c *gin.Context) {
	var req struct {
		ActiveIDs []int64 `json:"active_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	removed, err := store.Members.PurgeExcept(req.ActiveIDs)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidValue) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active_ids must not be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purge failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func missingSubmissionsHandler(c *gin.Context) {
	var cutoff time.Time
	switch {
	case c.Query("since") != "":
		t, err := time.Parse("2006-01-02", c.Query("since"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be YYYY-mm-dd"})
			return
		}
		cutoff = t
	case c.Query("period") != "":
		t, err := sinceFromPeriod(c.Query("period"), time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cutoff = t
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "since or period is required"})
		return
	}
	missing, err := store.Submissions.MissingSince(cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, missing)
}

func giveKudosHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild id"})
		return
	}
	var req struct {
		Sender  string `json:"sender" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guild, memberIDs, err := store.Kudos.Add(uint(id), req.Sender, req.Message)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record kudos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"guild_name": guild.GuildName,
		"member_ids": memberIDs,
	})
}

func kudosHistoryHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild id"})
		return
	}
	kudos, err := store.Kudos.History(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, kudos)
}
