package game

import (
	"testing"
	"time"

	"draw-guess-be/internal/config"
)

func testPolicy() *config.RoomPolicyConfig {
	return &config.RoomPolicyConfig{
		MinPlayerPerRoom:     2,
		MaxPlayerPerRoom:     4,
		MinTimeByTurn:        30,
		MaxTimeByTurn:        300,
		MinCycleRoundByGame:  1,
		MaxCycleRoundByGame:  10,
		MinPointGuess:        500,
		MaxPointGuess:        1000,
		MaxChatMessageLength: 240,
	}
}

// newTestContext 构建一个带 N 名玩家的房间上下文，
// 首位玩家为管理员，所有响应通道都有缓冲以便测试读取
func newTestContext(state string, playerIDs ...string) *GameContext {
	ctx := NewGameContext("room1", testPolicy(), nil)
	ctx.RoomState = state

	for _, id := range playerIDs {
		ctx.Players[id] = &Player{
			ID:     id,
			Name:   "player-" + id,
			RespCh: make(chan ResponseWrapper, 32),
		}
		ctx.JoinOrder = append(ctx.JoinOrder, id)
	}

	if len(playerIDs) > 0 {
		ctx.AdminID = playerIDs[0]
	}

	return ctx
}

// recvByChannel 从响应通道中取出第一条指定信道的消息，没有则返回 nil
func recvByChannel(ch chan ResponseWrapper, channel string) *ResponseWrapper {
	for {
		select {
		case resp := <-ch:
			if resp.Channel == channel {
				return &resp
			}
		default:
			return nil
		}
	}
}

func bindSwitchRecorder(handler StageHandler, ctx *GameContext) *string {
	var switched string

	handler.SetOnSwitch(func(nextStage string) {
		switched = nextStage
		ctx.RoomState = nextStage
	})

	return &switched
}

func TestLobbyStageHandler_JoinAssignsAdmin(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY)

	lsh := NewLobbyStageHandler()
	bindSwitchRecorder(lsh, ctx)

	respCh := make(chan ResponseWrapper, 32)

	req := RequestWrapper{
		Channel: CHANNEL_INIT,
		Native:  &JoinRoomRequest{Name: "Alice", RespCh: respCh},
	}

	if err := lsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("join should succeed, got: %v", err)
	}

	if len(ctx.Players) != 1 {
		t.Fatalf("player not added, want 1 got %d", len(ctx.Players))
	}

	initResp := recvByChannel(respCh, CHANNEL_INIT)
	if initResp == nil {
		t.Fatalf("joiner should receive INIT response")
	}

	initData, ok := initResp.Data.(InitResponse)
	if !ok || initData.PlayerID == "" {
		t.Fatalf("INIT response should carry player id, got %+v", initResp.Data)
	}

	if ctx.AdminID != initData.PlayerID {
		t.Fatalf("first joiner should be admin, want %q got %q", initData.PlayerID, ctx.AdminID)
	}
}

func TestLobbyStageHandler_JoinRejectsWhenFull(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1", "p2", "p3", "p4")

	lsh := NewLobbyStageHandler()
	bindSwitchRecorder(lsh, ctx)

	respCh := make(chan ResponseWrapper, 32)

	req := RequestWrapper{
		Channel: CHANNEL_INIT,
		Native:  &JoinRoomRequest{Name: "Eve", RespCh: respCh},
	}

	if err := lsh.OnHandle(ctx, req); err == nil {
		t.Fatalf("join into full room should fail")
	}

	errResp := recvByChannel(respCh, CHANNEL_INIT)
	if errResp == nil || errResp.Error == nil {
		t.Fatalf("rejected joiner should receive error response on own channel")
	}

	if len(ctx.Players) != 4 {
		t.Fatalf("roster mutated by rejected join, want 4 got %d", len(ctx.Players))
	}
}

func TestLobbyStageHandler_ConfigValidation(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1", "p2")

	lsh := NewLobbyStageHandler()
	bindSwitchRecorder(lsh, ctx)

	valid := RoomConfig{
		GameMode:         GAMEMODE_CLASSIC,
		TimeByTurn:       60,
		CycleRoundByGame: 3,
		WordList:         WORDLIST_ANIMALS,
	}

	// 非管理员无权修改
	req := RequestWrapper{
		Channel:  CHANNEL_CONFIG,
		Data:     mustMarshal(valid),
		AuthorID: "p2",
	}

	if err := lsh.OnHandle(ctx, req); err == nil {
		t.Fatalf("non-admin config change should be rejected")
	}

	// 超出策略范围
	outOfRange := valid
	outOfRange.TimeByTurn = 9999

	req = RequestWrapper{
		Channel:  CHANNEL_CONFIG,
		Data:     mustMarshal(outOfRange),
		AuthorID: "p1",
	}

	if err := lsh.OnHandle(ctx, req); err == nil {
		t.Fatalf("out-of-range config should be rejected")
	}

	// 合法修改生效并广播
	req = RequestWrapper{
		Channel:  CHANNEL_CONFIG,
		Data:     mustMarshal(valid),
		AuthorID: "p1",
	}

	if err := lsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("valid config change should succeed, got: %v", err)
	}

	if ctx.Config.TimeByTurn != 60 || ctx.Config.CycleRoundByGame != 3 {
		t.Fatalf("config not applied: %+v", ctx.Config)
	}

	if resp := recvByChannel(ctx.Players["p2"].RespCh, CHANNEL_CONFIG); resp == nil {
		t.Fatalf("config change should be broadcast to all players")
	}
}

func TestLobbyStageHandler_StartRequiresMinPlayers(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1")

	lsh := NewLobbyStageHandler()
	switched := bindSwitchRecorder(lsh, ctx)

	req := RequestWrapper{Channel: CHANNEL_START, AuthorID: "p1"}

	if err := lsh.OnHandle(ctx, req); err == nil {
		t.Fatalf("start below min players should be rejected")
	}

	if *switched != "" {
		t.Fatalf("room should stay in lobby, switched to %q", *switched)
	}
}

func TestLobbyStageHandler_StartResetsPointsAndSwitches(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1", "p2")
	ctx.Players["p1"].TotalPoint = 1200
	ctx.Players["p2"].RoundPoint = 300

	lsh := NewLobbyStageHandler()
	switched := bindSwitchRecorder(lsh, ctx)

	// 非管理员无权开始
	req := RequestWrapper{Channel: CHANNEL_START, AuthorID: "p2"}
	if err := lsh.OnHandle(ctx, req); err == nil {
		t.Fatalf("non-admin start should be rejected")
	}

	req = RequestWrapper{Channel: CHANNEL_START, AuthorID: "p1"}
	if err := lsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("start should succeed, got: %v", err)
	}

	if *switched != STATE_CHOOSE_WORD {
		t.Fatalf("start should switch to choose word, got %q", *switched)
	}

	if ctx.Players["p1"].TotalPoint != 0 || ctx.Players["p2"].RoundPoint != 0 {
		t.Fatalf("points should be reset on game start")
	}
}

func TestChooseWordStageHandler_SetWord(t *testing.T) {
	ctx := newTestContext(STATE_CHOOSE_WORD, "p1", "p2")
	ctx.Round.PossibleWords = []string{"apple", "house", "river"}
	ctx.Round.PlayerTurn = []string{"p1"}

	csh := NewChooseWordStageHandler()
	switched := bindSwitchRecorder(csh, ctx)

	// 不在候选中的词被拒绝
	req := RequestWrapper{
		Channel:  CHANNEL_CHOOSE_WORD,
		Data:     mustMarshal(ChooseWordRequest{Word: "banana"}),
		AuthorID: "p1",
	}

	if err := csh.OnHandle(ctx, req); err == nil {
		t.Fatalf("word outside candidates should be rejected")
	}

	req = RequestWrapper{
		Channel:  CHANNEL_CHOOSE_WORD,
		Data:     mustMarshal(ChooseWordRequest{Word: "apple"}),
		AuthorID: "p1",
	}

	if err := csh.OnHandle(ctx, req); err != nil {
		t.Fatalf("choosing candidate word should succeed, got: %v", err)
	}

	if ctx.Round.Word != "apple" {
		t.Fatalf("word not set, got %q", ctx.Round.Word)
	}

	if len([]rune(ctx.Round.MaskedWord)) != 5 {
		t.Fatalf("masked word length mismatch, got %q", ctx.Round.MaskedWord)
	}

	if *switched != STATE_DRAWING {
		t.Fatalf("room should switch to drawing, got %q", *switched)
	}
}

func TestChooseWordStageHandler_TimeoutServerPicks(t *testing.T) {
	ctx := newTestContext(STATE_CHOOSE_WORD, "p1", "p2")
	ctx.Round.PossibleWords = []string{"apple", "house", "river"}
	ctx.Round.PlayerTurn = []string{"p1"}

	csh := NewChooseWordStageHandler()
	switched := bindSwitchRecorder(csh, ctx)

	// 画师超时未选词，服务器在候选词中代选
	req := RequestWrapper{
		Channel: REQ_TIMEOUT,
		Native:  &TimeoutRequest{Kind: TMO_CHOOSE_WORD, Stage: STATE_CHOOSE_WORD},
	}

	if err := csh.OnHandle(ctx, req); err != nil {
		t.Fatalf("choose-word timeout should succeed, got: %v", err)
	}

	if !containsWord([]string{"apple", "house", "river"}, ctx.Round.Word) {
		t.Fatalf("server pick must come from the candidates, got %q", ctx.Round.Word)
	}

	if ctx.Round.MaskedWord == "" {
		t.Fatalf("masked word should be set after server pick")
	}

	if *switched != STATE_DRAWING {
		t.Fatalf("server pick should switch to drawing, got %q", *switched)
	}
}

func newDrawingContext(playerIDs ...string) *GameContext {
	ctx := newTestContext(STATE_DRAWING, playerIDs...)
	ctx.Round.Word = "apple"
	ctx.Round.MaskedWord = "a____"
	ctx.Round.PlayerTurn = []string{playerIDs[0]}
	ctx.Round.StateStarted = time.Now()

	return ctx
}

func TestDrawingStageHandler_GuessAwardsPoints(t *testing.T) {
	ctx := newDrawingContext("p1", "p2", "p3")

	dsh := NewDrawingStageHandler()
	switched := bindSwitchRecorder(dsh, ctx)

	// 大小写不敏感命中
	req := RequestWrapper{
		Channel:  CHANNEL_CHAT,
		Data:     mustMarshal(ChatRequest{Message: "APPLE"}),
		AuthorID: "p2",
	}

	if err := dsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("guess should succeed, got: %v", err)
	}

	guesserPoint := ctx.Players["p2"].RoundPoint
	if guesserPoint < 500 || guesserPoint > 1000 {
		t.Fatalf("guesser point out of range: %d", guesserPoint)
	}

	if got := ctx.Players["p1"].RoundPoint; got != GetDrawPoint(guesserPoint) {
		t.Fatalf("drawer award mismatch, want %d got %d", GetDrawPoint(guesserPoint), got)
	}

	if !ctx.Round.HasGuessed("p2") {
		t.Fatalf("guesser not recorded")
	}

	// 猜中事件广播到全房间
	if resp := recvByChannel(ctx.Players["p3"].RespCh, CHANNEL_GUESS); resp == nil {
		t.Fatalf("guess event should be broadcast to everyone")
	}

	// 仍有未猜中玩家，回合不应结束
	if *switched != "" {
		t.Fatalf("round should not end yet, switched to %q", *switched)
	}

	// 重复命中不再计分
	if err := dsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("duplicate guess should be silently ignored, got: %v", err)
	}

	if ctx.Players["p2"].RoundPoint != guesserPoint {
		t.Fatalf("duplicate guess changed points")
	}

	// 画师发送谜底不得自我计分
	drawerReq := RequestWrapper{
		Channel:  CHANNEL_CHAT,
		Data:     mustMarshal(ChatRequest{Message: "apple"}),
		AuthorID: "p1",
	}

	drawerBefore := ctx.Players["p1"].RoundPoint

	if err := dsh.OnHandle(ctx, drawerReq); err != nil {
		t.Fatalf("drawer sending word should be ignored, got: %v", err)
	}

	if ctx.Players["p1"].RoundPoint != drawerBefore {
		t.Fatalf("drawer must not score from own word")
	}
}

func TestDrawingStageHandler_LastGuessEndsRound(t *testing.T) {
	ctx := newDrawingContext("p1", "p2")

	dsh := NewDrawingStageHandler()
	switched := bindSwitchRecorder(dsh, ctx)

	req := RequestWrapper{
		Channel:  CHANNEL_CHAT,
		Data:     mustMarshal(ChatRequest{Message: "apple"}),
		AuthorID: "p2",
	}

	if err := dsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("guess should succeed, got: %v", err)
	}

	if *switched != STATE_END_ROUND {
		t.Fatalf("last guess should end round immediately, got %q", *switched)
	}
}

func TestDrawingStageHandler_DrawPermission(t *testing.T) {
	ctx := newDrawingContext("p1", "p2")

	dsh := NewDrawingStageHandler()
	bindSwitchRecorder(dsh, ctx)

	stroke := Draw{Tool: TOOL_BRUSH, Color: "#000000", LineWidth: 2}

	// 非画师不允许作画
	req := RequestWrapper{
		Channel:  CHANNEL_DRAW,
		Data:     mustMarshal(stroke),
		AuthorID: "p2",
	}

	if err := dsh.OnHandle(ctx, req); err == nil {
		t.Fatalf("non-drawer draw should be rejected")
	}

	req = RequestWrapper{
		Channel:  CHANNEL_DRAW,
		Data:     mustMarshal(stroke),
		AuthorID: "p1",
	}

	if err := dsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("drawer draw should succeed, got: %v", err)
	}

	if len(ctx.Round.Draws) != 1 {
		t.Fatalf("stroke not recorded, got %d", len(ctx.Round.Draws))
	}

	// 笔画广播给其他玩家，不回显给画师本人
	if resp := recvByChannel(ctx.Players["p2"].RespCh, CHANNEL_DRAW); resp == nil {
		t.Fatalf("stroke should be broadcast to guessers")
	}
	if resp := recvByChannel(ctx.Players["p1"].RespCh, CHANNEL_DRAW); resp != nil {
		t.Fatalf("stroke should not echo back to the drawer")
	}
}

func TestDrawingStageHandler_SpectatorChatHiddenFromGuessers(t *testing.T) {
	ctx := newDrawingContext("p1", "p2", "p3")
	ctx.Round.PlayersGuess["p2"] = struct{}{}

	dsh := NewDrawingStageHandler()
	bindSwitchRecorder(dsh, ctx)

	req := RequestWrapper{
		Channel:  CHANNEL_CHAT,
		Data:     mustMarshal(ChatRequest{Message: "that was easy"}),
		AuthorID: "p2",
	}

	if err := dsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("spectator chat should succeed, got: %v", err)
	}

	// 画师能看到旁观消息
	resp := recvByChannel(ctx.Players["p1"].RespCh, CHANNEL_CHAT)
	if resp == nil {
		t.Fatalf("drawer should receive spectator chat")
	}

	msg, ok := resp.Data.(Message)
	if !ok || !msg.IsSpectator {
		t.Fatalf("spectator chat should be flagged, got %+v", resp.Data)
	}

	// 仍在猜词的玩家看不到
	if resp := recvByChannel(ctx.Players["p3"].RespCh, CHANNEL_CHAT); resp != nil {
		t.Fatalf("active guesser should not receive spectator chat")
	}
}

func TestEndRoundStageHandler_NextRoundFoldsPoints(t *testing.T) {
	ctx := newTestContext(STATE_END_ROUND, "p1", "p2")
	ctx.Players["p1"].RoundPoint = 400
	ctx.Players["p2"].RoundPoint = 800
	ctx.Players["p2"].TotalPoint = 100
	ctx.Round.CycleNumber = 1
	ctx.Round.NotYetPlayed = []string{"p2"}
	ctx.Config.CycleRoundByGame = 2

	esh := NewEndRoundStageHandler()
	switched := bindSwitchRecorder(esh, ctx)

	req := RequestWrapper{
		Channel: REQ_TIMEOUT,
		Native:  &TimeoutRequest{Kind: TMO_NEXT_ROUND, Stage: STATE_END_ROUND},
	}

	if err := esh.OnHandle(ctx, req); err != nil {
		t.Fatalf("end-round timeout should succeed, got: %v", err)
	}

	if ctx.Players["p1"].TotalPoint != 400 || ctx.Players["p1"].RoundPoint != 0 {
		t.Fatalf("p1 points not folded: %+v", ctx.Players["p1"])
	}
	if ctx.Players["p2"].TotalPoint != 900 || ctx.Players["p2"].RoundPoint != 0 {
		t.Fatalf("p2 points not folded: %+v", ctx.Players["p2"])
	}

	if *switched != STATE_CHOOSE_WORD {
		t.Fatalf("queue not exhausted, next round expected, got %q", *switched)
	}
}

func TestEndRoundStageHandler_CycleCompleteEndsGame(t *testing.T) {
	ctx := newTestContext(STATE_END_ROUND, "p1", "p2")
	ctx.Round.CycleNumber = 2
	ctx.Round.NotYetPlayed = []string{}
	ctx.Config.CycleRoundByGame = 2

	esh := NewEndRoundStageHandler()
	switched := bindSwitchRecorder(esh, ctx)

	req := RequestWrapper{
		Channel: REQ_TIMEOUT,
		Native:  &TimeoutRequest{Kind: TMO_NEXT_ROUND, Stage: STATE_END_ROUND},
	}

	if err := esh.OnHandle(ctx, req); err != nil {
		t.Fatalf("end-round timeout should succeed, got: %v", err)
	}

	if *switched != STATE_END_GAME {
		t.Fatalf("full cycles should end the game, got %q", *switched)
	}
}

func TestEndRoundStageHandler_StaleTimeoutIgnored(t *testing.T) {
	ctx := newTestContext(STATE_END_ROUND, "p1", "p2")
	ctx.Players["p1"].RoundPoint = 400

	esh := NewEndRoundStageHandler()
	switched := bindSwitchRecorder(esh, ctx)

	// 选词阶段遗留的过期定时器不得推进回合
	req := RequestWrapper{
		Channel: REQ_TIMEOUT,
		Native:  &TimeoutRequest{Kind: TMO_CHOOSE_WORD, Stage: STATE_CHOOSE_WORD},
	}

	if err := esh.OnHandle(ctx, req); err != nil {
		t.Fatalf("stale timeout should be ignored silently, got: %v", err)
	}

	if *switched != "" || ctx.Players["p1"].RoundPoint != 400 {
		t.Fatalf("stale timeout mutated room state")
	}
}

func TestCommonRequest_ExitPromotesAdmin(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1", "p2", "p3")

	lsh := NewLobbyStageHandler()
	bindSwitchRecorder(lsh, ctx)

	req := RequestWrapper{
		Channel: REQ_EXIT,
		Native: &ExitRequest{
			PlayerID: "p1",
			RespCh:   ctx.Players["p1"].RespCh,
		},
	}

	if err := lsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("exit should succeed, got: %v", err)
	}

	if _, exists := ctx.Players["p1"]; exists {
		t.Fatalf("player not removed")
	}

	if ctx.AdminID != "p2" {
		t.Fatalf("admin should pass to next joiner, got %q", ctx.AdminID)
	}
}

func TestCommonRequest_KickedPlayerChannelStaysWritable(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1", "p2")
	respCh := ctx.Players["p2"].RespCh

	lsh := NewLobbyStageHandler()
	bindSwitchRecorder(lsh, ctx)

	req := RequestWrapper{
		Channel: REQ_KICK_PLAYER,
		Native:  &KickPlayerRequest{PlayerID: "p2", Reason: "管理员移除"},
	}

	if err := lsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("kick should succeed, got: %v", err)
	}

	if _, exists := ctx.Players["p2"]; exists {
		t.Fatalf("kicked player not removed")
	}

	if resp := recvByChannel(respCh, CHANNEL_KICK); resp == nil {
		t.Fatalf("kicked player should receive KICK notice")
	}

	// 连接层的读循环在看到踢出通知前仍会写入心跳回复，
	// 通道必须保持可写（通道已被关闭时这里会直接 panic）
	respCh <- WrapResponse(CHANNEL_PONG, nil)
}

func TestCommonRequest_ExitedPlayerChannelStaysWritable(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1", "p2")
	respCh := ctx.Players["p2"].RespCh

	lsh := NewLobbyStageHandler()
	bindSwitchRecorder(lsh, ctx)

	req := RequestWrapper{
		Channel: REQ_EXIT,
		Native:  &ExitRequest{PlayerID: "p2", RespCh: respCh},
	}

	if err := lsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("exit should succeed, got: %v", err)
	}

	respCh <- WrapResponse(CHANNEL_PONG, nil)
}

func TestCommonRequest_StaleExitIgnored(t *testing.T) {
	ctx := newTestContext(STATE_LOBBY, "p1", "p2")

	lsh := NewLobbyStageHandler()
	bindSwitchRecorder(lsh, ctx)

	// 携带陈旧响应通道的退出请求应被忽略
	req := RequestWrapper{
		Channel: REQ_EXIT,
		Native: &ExitRequest{
			PlayerID: "p1",
			RespCh:   make(chan ResponseWrapper, 1),
		},
	}

	if err := lsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("stale exit should be ignored, got: %v", err)
	}

	if _, exists := ctx.Players["p1"]; !exists {
		t.Fatalf("stale exit removed a live player")
	}
}

func TestCommonRequest_ForceEndGame(t *testing.T) {
	ctx := newDrawingContext("p1", "p2")
	ctx.Players["p2"].RoundPoint = 600

	dsh := NewDrawingStageHandler()
	switched := bindSwitchRecorder(dsh, ctx)

	req := RequestWrapper{
		Channel: REQ_END_GAME,
		Native:  &EndGameRequest{Reason: "玩家数量不足"},
	}

	if err := dsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("force end game should succeed, got: %v", err)
	}

	if *switched != STATE_LOBBY {
		t.Fatalf("forced end should return to lobby, got %q", *switched)
	}

	if ctx.Players["p2"].TotalPoint != 600 || ctx.Players["p2"].RoundPoint != 0 {
		t.Fatalf("points should be folded on forced end")
	}
}

func TestDrawingStageHandler_TimeoutEndsRound(t *testing.T) {
	ctx := newDrawingContext("p1", "p2")
	ctx.Config.TimeByTurn = 30
	ctx.Round.StateStarted = time.Now().Add(-31 * time.Second)

	dsh := NewDrawingStageHandler()
	switched := bindSwitchRecorder(dsh, ctx)

	req := RequestWrapper{
		Channel: REQ_TIMEOUT,
		Native:  &TimeoutRequest{Kind: TMO_ROUND_TICK, Stage: STATE_DRAWING},
	}

	if err := dsh.OnHandle(ctx, req); err != nil {
		t.Fatalf("tick should succeed, got: %v", err)
	}

	if *switched != STATE_END_ROUND {
		t.Fatalf("elapsed turn should end round, got %q", *switched)
	}
}
