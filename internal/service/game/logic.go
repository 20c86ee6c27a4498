package game

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// 房间整体分为 5 个阶段，和对外的 RoomState 一一对应：
// 1. 大厅（LOBBY）：玩家加入/离开，管理员修改配置并开始游戏
// 2. 选词（CHOOSE_WORD）：轮到的画师从候选词中挑一个，超时由服务器代选
// 3. 作画（DRAWING）：画师作画，其他玩家在聊天中猜词，按猜中速度计分
// 4. 回合结算（END_ROUND）：展示结算，延时后进入下一回合或终局
// 5. 终局（END_GAME）：展示总分，延时后回到大厅
type StageHandler interface {
	Stage() string

	OnEnter(ctx *GameContext)
	OnHandle(ctx *GameContext, req RequestWrapper) error
	OnExit(ctx *GameContext)

	SetOnSwitch(func(nextStage string))
}

// ---------------------------------------------------------------------------
// 大厅阶段

type lobbyStageHandler struct {
	onSwitch func(string)
}

func NewLobbyStageHandler() *lobbyStageHandler {
	return &lobbyStageHandler{}
}

func (lsh *lobbyStageHandler) Stage() string {
	return STATE_LOBBY
}

func (lsh *lobbyStageHandler) OnEnter(ctx *GameContext) {
	// 回到大厅时兜底清掉所有残留定时器（强制终局路径也走这里）
	ctx.ClearAllTimeouts()

	broadcastInfo(ctx)
}

func (lsh *lobbyStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req, lsh.onSwitch); handled {
		return err
	}

	if cfg := TryUnwrapConfigRequest(req); cfg != nil {
		return onConfigure(ctx, req.AuthorID, *cfg)
	}

	if req.Channel == CHANNEL_START && req.Native == nil {
		return onStartGame(ctx, req.AuthorID, lsh.onSwitch)
	}

	if tmo := TryUnwrapTimeoutRequest(req); tmo != nil {
		// 过期定时器，静默忽略
		return nil
	}

	return NewStateError("大厅阶段不支持该请求")
}

func (lsh *lobbyStageHandler) OnExit(ctx *GameContext) {
}

func (lsh *lobbyStageHandler) SetOnSwitch(onSwitch func(string)) {
	lsh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 选词阶段

type chooseWordStageHandler struct {
	onSwitch func(string)
}

func NewChooseWordStageHandler() *chooseWordStageHandler {
	return &chooseWordStageHandler{}
}

func (csh *chooseWordStageHandler) Stage() string {
	return STATE_CHOOSE_WORD
}

func (csh *chooseWordStageHandler) OnEnter(ctx *GameContext) {
	startRound(ctx, csh.onSwitch)
}

func (csh *chooseWordStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req, csh.onSwitch); handled {
		return err
	}

	if chooseReq := TryUnwrapChooseWordRequest(req); chooseReq != nil {
		return setChosenWord(ctx, chooseReq.Word, csh.onSwitch)
	}

	if tmo := TryUnwrapTimeoutRequest(req); tmo != nil {
		if tmo.Kind == TMO_CHOOSE_WORD && tmo.Stage == STATE_CHOOSE_WORD {
			// 画师超时未选词，服务器在候选词中均匀随机代选
			zap.S().Debugf("房间 %s 选词超时，服务器代选", ctx.RoomID)
			return setChosenWord(ctx, GetRandomWordFromArray(ctx.Round.PossibleWords), csh.onSwitch)
		}
		return nil
	}

	return NewStateError("选词阶段不支持该请求")
}

func (csh *chooseWordStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout(TMO_CHOOSE_WORD)
}

func (csh *chooseWordStageHandler) SetOnSwitch(onSwitch func(string)) {
	csh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 作画阶段

type drawingStageHandler struct {
	onSwitch func(string)
}

func NewDrawingStageHandler() *drawingStageHandler {
	return &drawingStageHandler{}
}

func (dsh *drawingStageHandler) Stage() string {
	return STATE_DRAWING
}

func (dsh *drawingStageHandler) OnEnter(ctx *GameContext) {
	ctx.Round.StateStarted = time.Now()

	broadcastInfo(ctx)

	// 每秒重新评估回合是否结束
	ctx.SetTimeout(TMO_ROUND_TICK, ROUND_TICK)
}

func (dsh *drawingStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req, dsh.onSwitch); handled {
		return err
	}

	if draw := TryUnwrapDrawRequest(req); draw != nil {
		return onDraw(ctx, req.AuthorID, *draw)
	}

	if tmo := TryUnwrapTimeoutRequest(req); tmo != nil {
		if tmo.Kind == TMO_ROUND_TICK && tmo.Stage == STATE_DRAWING {
			checkRoundOver(ctx, dsh.onSwitch)

			// 回合未结束则续上下一秒的评估
			if ctx.RoomState == STATE_DRAWING {
				ctx.SetTimeout(TMO_ROUND_TICK, ROUND_TICK)
			}
		}
		return nil
	}

	return NewStateError("作画阶段不支持该请求")
}

func (dsh *drawingStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout(TMO_ROUND_TICK)
}

func (dsh *drawingStageHandler) SetOnSwitch(onSwitch func(string)) {
	dsh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 回合结算阶段

type endRoundStageHandler struct {
	onSwitch func(string)
}

func NewEndRoundStageHandler() *endRoundStageHandler {
	return &endRoundStageHandler{}
}

func (esh *endRoundStageHandler) Stage() string {
	return STATE_END_ROUND
}

func (esh *endRoundStageHandler) OnEnter(ctx *GameContext) {
	ctx.Round.StateStarted = time.Now()

	broadcastInfo(ctx)

	ctx.SetTimeout(TMO_NEXT_ROUND, DELAY_NEXT_ROUND)
}

func (esh *endRoundStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req, esh.onSwitch); handled {
		return err
	}

	if tmo := TryUnwrapTimeoutRequest(req); tmo != nil {
		if tmo.Kind == TMO_NEXT_ROUND && tmo.Stage == STATE_END_ROUND {
			nextRound(ctx, esh.onSwitch)
		}
		return nil
	}

	return NewStateError("回合结算阶段不支持该请求")
}

func (esh *endRoundStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout(TMO_NEXT_ROUND)
}

func (esh *endRoundStageHandler) SetOnSwitch(onSwitch func(string)) {
	esh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 终局阶段

type endGameStageHandler struct {
	onSwitch func(string)
}

func NewEndGameStageHandler() *endGameStageHandler {
	return &endGameStageHandler{}
}

func (gsh *endGameStageHandler) Stage() string {
	return STATE_END_GAME
}

func (gsh *endGameStageHandler) OnEnter(ctx *GameContext) {
	ctx.Round.StateStarted = time.Now()

	broadcastInfo(ctx)

	ctx.SetTimeout(TMO_END_GAME, DELAY_END_GAME)
}

func (gsh *endGameStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req, gsh.onSwitch); handled {
		return err
	}

	if tmo := TryUnwrapTimeoutRequest(req); tmo != nil {
		if tmo.Kind == TMO_END_GAME && tmo.Stage == STATE_END_GAME {
			gsh.onSwitch(STATE_LOBBY)
		}
		return nil
	}

	return NewStateError("终局阶段不支持该请求")
}

func (gsh *endGameStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout(TMO_END_GAME)
}

func (gsh *endGameStageHandler) SetOnSwitch(onSwitch func(string)) {
	gsh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 各阶段共用的请求处理

// handleCommonRequest 处理在任何阶段都合法的请求（加入、离开、聊天、
// 拉取信息、注册表控制事件）；返回值指明请求是否被消费
func handleCommonRequest(ctx *GameContext, req RequestWrapper, onSwitch func(string)) (bool, error) {
	if joinReq := TryUnwrapJoinRoomRequest(req); joinReq != nil {
		return true, onPlayerJoin(ctx, joinReq)
	}

	if exitReq := TryUnwrapExitRequest(req); exitReq != nil {
		onPlayerExit(ctx, exitReq, onSwitch)
		return true, nil
	}

	if chatReq := TryUnwrapChatRequest(req); chatReq != nil {
		return true, onChatMessage(ctx, req.AuthorID, chatReq.Message, onSwitch)
	}

	if req.Channel == CHANNEL_INFO && req.Native == nil {
		ctx.UnicastResp(req.AuthorID, WrapResponse(
			CHANNEL_INFO,
			buildInfoResponseFor(ctx, req.AuthorID),
		))
		return true, nil
	}

	if endReq := TryUnwrapEndGameRequest(req); endReq != nil {
		// 终止对局是幂等的：大厅状态下直接无事发生
		if ctx.IsInGame() {
			zap.S().Infof("房间 %s 对局被强制终止（%s）", ctx.RoomID, endReq.Reason)
			endRound(ctx)
			onSwitch(STATE_LOBBY)
		}
		return true, nil
	}

	if kickReq := TryUnwrapKickPlayerRequest(req); kickReq != nil {
		if _, exists := ctx.Players[kickReq.PlayerID]; exists {
			zap.S().Infof(
				"房间 %s 玩家 %s 被管理端移除（%s）",
				ctx.RoomID, kickReq.PlayerID, kickReq.Reason,
			)

			ctx.KickPlayer(kickReq.PlayerID, kickReq.Reason)

			if ctx.RoomState == STATE_DRAWING {
				checkRoundOver(ctx, onSwitch)
			}

			broadcastInfo(ctx)

			ctx.notifyPlayersChanged()
		}
		return true, nil
	}

	if IsRecheckRequest(req) {
		// 离队可能让未猜中的玩家清零，此时回合应立即结束
		if ctx.RoomState == STATE_DRAWING {
			checkRoundOver(ctx, onSwitch)
		}
		return true, nil
	}

	return false, nil
}

// onPlayerJoin 处理 INIT：校验容量，创建玩家并绑定连接。
// 失败时直接把错误写回请求自带的响应通道（此时玩家尚未入册）
func onPlayerJoin(ctx *GameContext, req *JoinRoomRequest) error {
	sendJoinErr := func(err error) error {
		select {
		case req.RespCh <- WrapErrResponse(CHANNEL_INIT, err):
		default:
		}
		return err
	}

	if strings.TrimSpace(req.Name) == "" {
		return sendJoinErr(NewValidationError("玩家名称不能为空"))
	}

	if len(ctx.Players) >= ctx.Policy.MaxPlayerPerRoom {
		return sendJoinErr(NewCapacityError("房间已满"))
	}

	player := &Player{
		ID:     GenShortID(),
		Name:   req.Name,
		ImgURL: req.ImgURL,
		RespCh: req.RespCh,
	}

	ctx.Players[player.ID] = player
	ctx.JoinOrder = append(ctx.JoinOrder, player.ID)

	// 首位加入者成为管理员
	if ctx.AdminID == "" {
		ctx.AdminID = player.ID
	}

	ctx.UnicastResp(player.ID, WrapResponse(
		CHANNEL_INIT,
		InitResponse{
			PlayerID: player.ID,
			Messages: ctx.Messages,
			Draws:    ctx.Round.Draws,
		},
	))

	broadcastInfo(ctx)

	zap.S().Infof("房间 %s 玩家 %s(%s) 加入", ctx.RoomID, player.Name, player.ID)

	ctx.notifyPlayersChanged()

	return nil
}

// onPlayerExit 把断连视为隐式离开：从名册和回合引擎中移除，
// 必要时移交管理员并立即重估回合。玩家的响应通道归连接层所有，这里不关闭
func onPlayerExit(ctx *GameContext, req *ExitRequest, onSwitch func(string)) {
	player, exists := ctx.Players[req.PlayerID]
	if !exists {
		return
	}

	// 响应通道即连接身份：不匹配说明该玩家已被踢出或被新连接替换，
	// 旧连接的退出请求直接忽略
	if player.RespCh != req.RespCh {
		zap.L().Debug(
			"忽略旧连接的退出请求",
			zap.String("room_id", ctx.RoomID),
			zap.String("player_id", req.PlayerID),
		)
		return
	}

	ctx.removeFromRoster(req.PlayerID)

	zap.S().Infof("房间 %s 玩家 %s(%s) 离开", ctx.RoomID, player.Name, player.ID)

	if ctx.RoomState == STATE_DRAWING {
		// 画师离开或未猜中者清零都可能让回合立即结束
		checkRoundOver(ctx, onSwitch)
	}

	broadcastInfo(ctx)

	ctx.notifyPlayersChanged()
}

// onConfigure 只允许管理员在大厅修改配置，并按策略校验取值范围；
// 配置生效时回合引擎按新的游戏模式重建
func onConfigure(ctx *GameContext, authorID string, cfg RoomConfig) error {
	if authorID != ctx.AdminID {
		return NewPermissionError("只有管理员可以修改房间配置")
	}

	if cfg.GameMode != GAMEMODE_CLASSIC {
		return NewValidationError("未知的游戏模式")
	}
	if cfg.TimeByTurn < ctx.Policy.MinTimeByTurn || cfg.TimeByTurn > ctx.Policy.MaxTimeByTurn {
		return NewValidationError("每回合时长超出允许范围")
	}
	if cfg.CycleRoundByGame < ctx.Policy.MinCycleRoundByGame || cfg.CycleRoundByGame > ctx.Policy.MaxCycleRoundByGame {
		return NewValidationError("循环数超出允许范围")
	}
	if cfg.WordList == "" {
		return NewValidationError("词库类别不能为空")
	}

	ctx.Config = cfg
	ctx.Round = NewRound(cfg.GameMode)

	ctx.BroadcastResp(WrapResponse(CHANNEL_CONFIG, ctx.Config))

	zap.S().Infof("房间 %s 配置更新：%+v", ctx.RoomID, cfg)

	return nil
}

// onStartGame 校验管理员与人数下限，加载词库并清零积分后开始第一回合
func onStartGame(ctx *GameContext, authorID string, onSwitch func(string)) error {
	if authorID != ctx.AdminID {
		return NewPermissionError("只有管理员可以开始游戏")
	}

	if len(ctx.Players) < ctx.Policy.MinPlayerPerRoom {
		return NewCapacityError("玩家数量不足，无法开始游戏")
	}

	ctx.Words = LoadWordList(ctx.Policy.WordListDir, ctx.Config.WordList)
	if len(ctx.Words) == 0 {
		zap.L().Warn(
			"词库为空，开局后将无候选词可供选择",
			zap.String("room_id", ctx.RoomID),
			zap.String("word_list", ctx.Config.WordList),
		)
	}

	ctx.Round = NewRound(ctx.Config.GameMode)

	for _, p := range ctx.Players {
		p.TotalPoint = 0
		p.RoundPoint = 0
	}

	ctx.UnicastResp(authorID, WrapResponse(CHANNEL_START, ctx.Config))

	zap.S().Infof("房间 %s 游戏开始", ctx.RoomID)

	onSwitch(STATE_CHOOSE_WORD)

	return nil
}

// startRound 开始一个新回合：必要时补满循环队列，取出画师并私发候选词。
// 人数低于下限时对局立即结束
func startRound(ctx *GameContext, onSwitch func(string)) {
	ctx.Round.ResetTurn()
	ctx.Round.PossibleWords = GetNbRandomWords(ctx.Words, WORD_CHOOSE_NB)

	zap.S().Debugf("房间 %s 新回合候选词：%v", ctx.RoomID, ctx.Round.PossibleWords)

	if len(ctx.Round.NotYetPlayed) == 0 {
		if len(ctx.Players) < ctx.Policy.MinPlayerPerRoom {
			zap.S().Infof("房间 %s 人数不足，对局结束", ctx.RoomID)
			endRound(ctx)
			onSwitch(STATE_LOBBY)
			return
		}

		ctx.Round.RefillCycle(ctx.JoinOrder)
	}

	drawerID, ok := ctx.Round.PopNextDrawer()
	if !ok {
		// 并发离开把队列掏空，防御性返回大厅
		endRound(ctx)
		onSwitch(STATE_LOBBY)
		return
	}

	ctx.Round.StateStarted = time.Now()

	ctx.UnicastResp(drawerID, WrapResponse(
		CHANNEL_CHOOSE_WORD,
		ChooseWordAsk{Words: ctx.Round.PossibleWords},
	))

	broadcastInfo(ctx)

	ctx.SetTimeout(TMO_CHOOSE_WORD, DELAY_CHOOSE_WORD)
}

// setChosenWord 选定本回合词语：生成掩码词并进入作画阶段
func setChosenWord(ctx *GameContext, word string, onSwitch func(string)) error {
	if ctx.RoomState != STATE_CHOOSE_WORD {
		return NewStateError("房间必须处于选词阶段")
	}

	if len(ctx.Round.PossibleWords) > 0 && !containsWord(ctx.Round.PossibleWords, word) {
		return NewValidationError("所选词语不在候选词中")
	}

	zap.S().Debugf("房间 %s 选定词语 %s", ctx.RoomID, word)

	ctx.ClearTimeout(TMO_CHOOSE_WORD)

	ctx.Round.Word = word
	ctx.Round.MaskedWord = RevealOneLetter(word)

	// 向画师确认最终选定的词
	for _, drawerID := range ctx.Round.PlayerTurn {
		ctx.UnicastResp(drawerID, WrapResponse(
			CHANNEL_CHOOSE_WORD,
			ChooseWordResponse{Word: word},
		))
	}

	onSwitch(STATE_DRAWING)

	return nil
}

// onDraw 只接受当前画师的笔画，出站载荷带上作者并且不回显给本人
func onDraw(ctx *GameContext, authorID string, draw Draw) error {
	if !ctx.Round.IsDrawer(authorID) {
		return NewPermissionError("你没有作画权限")
	}

	switch draw.Tool {
	case TOOL_BRUSH, TOOL_ERASER, TOOL_FILL, TOOL_CLEAR:
	default:
		return NewValidationError("未知的画笔工具")
	}

	ctx.Round.AddDraw(draw)

	ctx.BroadcastResp(WrapResponse(
		CHANNEL_DRAW,
		DrawResponse{
			Draw:      draw,
			Draftsman: *ctx.Players[authorID],
		},
	), authorID)

	return nil
}

// onChatMessage 是聊天与猜词的共同入口。
// 作画阶段大小写不敏感地命中谜底即为猜中：不进入聊天记录，按剩余时间计分，
// 向全房间广播 GUESS 事件；其余消息作为普通聊天广播，
// 旁观消息（作者已猜中或正在作画）对仍在猜词的玩家隐藏
func onChatMessage(ctx *GameContext, authorID, message string, onSwitch func(string)) error {
	author, ok := ctx.Players[authorID]
	if !ok {
		return NewNotFoundError("玩家不在房间中")
	}

	hasGuess := ctx.RoomState == STATE_DRAWING &&
		ctx.Round.Word != "" &&
		strings.EqualFold(message, ctx.Round.Word)
	isSpectator := ctx.Round.HasGuessedOrDrawer(authorID)

	if hasGuess {
		// 画师或已猜中者重复命中：不计分也不广播
		if isSpectator {
			return nil
		}

		guessWord(ctx, author)

		// 先私发刷新让猜中者立刻看到原词，再广播猜中事件
		ctx.UnicastResp(authorID, WrapResponse(
			CHANNEL_INFO,
			buildInfoResponseFor(ctx, authorID),
		))

		// 最后一名未猜中玩家命中时回合立即结束，不等下一次评估
		checkRoundOver(ctx, onSwitch)

		return nil
	}

	if strings.TrimSpace(message) == "" {
		return NewValidationError("聊天消息不能为空")
	}
	if len([]rune(message)) > ctx.Policy.MaxChatMessageLength {
		return NewValidationError("聊天消息过长")
	}

	chatMessage := Message{
		Author: Author{
			Name:   author.Name,
			ImgURL: author.ImgURL,
		},
		Message:     message,
		Timestamp:   time.Now(),
		IsSpectator: isSpectator,
	}

	// 历史始终完整保存，旁观消息只是发送时被过滤
	ctx.Messages = append(ctx.Messages, chatMessage)

	var excludeIDs []string
	if isSpectator {
		for id := range ctx.Players {
			if !ctx.Round.HasGuessedOrDrawer(id) {
				excludeIDs = append(excludeIDs, id)
			}
		}
	}

	ctx.BroadcastResp(WrapResponse(CHANNEL_CHAT, chatMessage), excludeIDs...)

	return nil
}

// guessWord 结算一次猜中：猜中者按剩余时间得分，每位画师得其一半
func guessWord(ctx *GameContext, guesser *Player) {
	start := ctx.Round.StateStarted
	end := start.Add(time.Duration(ctx.Config.TimeByTurn) * time.Second)

	guessGainPoint := guessAward(
		ctx.Round.GameMode,
		ctx.Policy.MaxPointGuess,
		ctx.Policy.MinPointGuess,
		start, end, time.Now(),
	)
	drawGainPoint := GetDrawPoint(guessGainPoint)

	guesser.RoundPoint += guessGainPoint
	for _, drawerID := range ctx.Round.PlayerTurn {
		if drawer, ok := ctx.Players[drawerID]; ok {
			drawer.RoundPoint += drawGainPoint
		}
	}

	ctx.Round.PlayersGuess[guesser.ID] = struct{}{}

	zap.S().Debugf(
		"房间 %s 玩家 %s 猜中，得分 %d（画师 %d）",
		ctx.RoomID, guesser.ID, guessGainPoint, drawGainPoint,
	)

	ctx.BroadcastResp(WrapResponse(
		CHANNEL_GUESS,
		GuessResponse{
			GuessGainPoint: guessGainPoint,
			DrawGainPoint:  drawGainPoint,
			Guesser:        *guesser,
		},
	))
}

// checkRoundOver 重估回合是否结束：时间耗尽、画师席位为空、
// 或所有非画师玩家都已猜中，三者任一成立即进入回合结算
func checkRoundOver(ctx *GameContext, onSwitch func(string)) {
	if ctx.RoomState != STATE_DRAWING {
		return
	}

	timeIsOver := !ctx.Round.StateStarted.IsZero() &&
		time.Since(ctx.Round.StateStarted) > time.Duration(ctx.Config.TimeByTurn)*time.Second

	allPlayerGuessed := true
	for id := range ctx.Players {
		if !ctx.Round.HasGuessedOrDrawer(id) {
			allPlayerGuessed = false
			break
		}
	}

	if timeIsOver || len(ctx.Round.PlayerTurn) == 0 || allPlayerGuessed {
		zap.S().Debugf("房间 %s 回合结束", ctx.RoomID)
		onSwitch(STATE_END_ROUND)
	}
}

// nextRound 在回合结算延时后推进：积分入总分，
// 循环打满时进入终局，否则开始下一回合
func nextRound(ctx *GameContext, onSwitch func(string)) {
	if !ctx.IsInGame() {
		return
	}

	cycleDone := len(ctx.Round.NotYetPlayed) == 0 &&
		ctx.Round.CycleNumber == ctx.Config.CycleRoundByGame

	endRound(ctx)

	if cycleDone {
		onSwitch(STATE_END_GAME)
	} else {
		onSwitch(STATE_CHOOSE_WORD)
	}
}

// endRound 收束一个回合：回合积分并入总分后清零，单回合状态重置
func endRound(ctx *GameContext) {
	ctx.ClearAllTimeouts()

	for _, p := range ctx.Players {
		p.TotalPoint += p.RoundPoint
		p.RoundPoint = 0
	}

	ctx.Round.ResetTurn()
}

func buildInfoResponseFor(ctx *GameContext, playerID string) InfoResponse {
	info := InfoResponse{
		RoomState:     ctx.RoomState,
		PlayerAdminID: ctx.AdminID,
		PlayerList:    ctx.OrderedPlayers(),
		RoomConfig:    ctx.Config,
	}

	if ctx.IsInGame() {
		// 画师和已猜中者看到原词，其余玩家看到掩码词
		word := ctx.Round.MaskedWord
		if ctx.Round.HasGuessedOrDrawer(playerID) {
			word = ctx.Round.Word
		}

		var started *time.Time
		if !ctx.Round.StateStarted.IsZero() {
			t := ctx.Round.StateStarted
			started = &t
		}

		info.RoundData = &RoundData{
			DateStateStarted:  started,
			Word:              word,
			RoundCurrentCycle: ctx.Round.CycleNumber,
			PlayerTurn:        ctx.PlayerTurnPlayers(),
		}
	}

	return info
}

// broadcastInfo 的载荷按接收者个性化，因此逐人单播
func broadcastInfo(ctx *GameContext) {
	for id := range ctx.Players {
		ctx.UnicastResp(id, WrapResponse(
			CHANNEL_INFO,
			buildInfoResponseFor(ctx, id),
		))
	}
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}

	return false
}
