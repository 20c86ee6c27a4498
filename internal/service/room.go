package service

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"draw-guess-be/internal/config"
	"draw-guess-be/internal/service/game"
)

const (
	// 新房间从创建起的保留窗口，窗口内空房不清理
	EMPTY_ROOM_GRACE = 30 * time.Second

	// 玩家数变化后清扫的抖动区间，避免瞬时离开又重连时误删
	SWEEP_JITTER_MIN = 10 * time.Millisecond
	SWEEP_JITTER_MAX = 100 * time.Millisecond

	ROOM_ID_MAX_RETRY = 16
)

var (
	ErrRoomNotFound  = errors.New("房间不存在")
	ErrRoomDuplicate = errors.New("房间号已被占用")
)

type RoomService struct {
	state  *roomServiceState
	policy *config.RoomPolicyConfig
}

type roomServiceState struct {
	mu sync.RWMutex

	rooms map[string]*roomEntry

	cleanUpDone chan struct{}
}

type roomEntry struct {
	machine *game.GameMachine
	doneCh  chan struct{}

	// 是否有玩家加入过；加入过的房间一旦空置立即回收，
	// 创建保留窗口只保护从未有人进过的新房
	hadPlayers bool
}

func NewRoomService(policy *config.RoomPolicyConfig) *RoomService {
	rs := &RoomService{
		state: &roomServiceState{
			rooms:       make(map[string]*roomEntry),
			cleanUpDone: make(chan struct{}),
		},
		policy: policy,
	}

	// 兜底清扫：事件驱动的清扫万一丢失，这里每分钟全量检查一次
	go rs.startCleanupLoop()

	return rs
}

func (rs *RoomService) Close() {
	close(rs.state.cleanUpDone)

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for roomID, entry := range rs.state.rooms {
		close(entry.doneCh)
		delete(rs.state.rooms, roomID)
	}
}

func (rs *RoomService) startCleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rs.state.cleanUpDone:
			return

		case <-ticker.C:
			for _, roomID := range rs.roomIDs() {
				rs.sweepRoom(roomID)
			}
		}
	}
}

// CreateRoom 生成一个未被占用的 8 位房间号并启动房间协程
func (rs *RoomService) CreateRoom() (string, error) {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for range ROOM_ID_MAX_RETRY {
		roomID := game.GenShortID()

		if _, exists := rs.state.rooms[roomID]; exists {
			continue
		}

		rs.createRoomLocked(roomID)

		return roomID, nil
	}

	return "", errors.New("生成房间号失败")
}

// CreateRoomWithID 按指定房间号建房，房间号冲突时报错
func (rs *RoomService) CreateRoomWithID(roomID string) error {
	if roomID == "" {
		return errors.New("房间号不能为空")
	}

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	if _, exists := rs.state.rooms[roomID]; exists {
		return ErrRoomDuplicate
	}

	rs.createRoomLocked(roomID)

	return nil
}

func (rs *RoomService) createRoomLocked(roomID string) {
	doneCh := make(chan struct{})

	machine := game.NewGameMachine(
		roomID,
		rs.policy,
		doneCh,
		func() { rs.scheduleSweep(roomID) },
	)

	rs.state.rooms[roomID] = &roomEntry{
		machine: machine,
		doneCh:  doneCh,
	}

	go machine.Start()

	// 保留窗口结束后复查：没人加入过的空房到期回收
	time.AfterFunc(EMPTY_ROOM_GRACE, func() {
		rs.sweepRoom(roomID)
	})

	zap.S().Infof("房间 %s 已创建", roomID)
}

// JoinRoom 把加入请求投进房间协程；目标房间不存在时按该房间号现场创建。
// 玩家 ID 会通过 respCh 上的 INIT 响应送达连接层
func (rs *RoomService) JoinRoom(
	roomID, name, imgURL string,
	respCh chan game.ResponseWrapper,
) (chan game.RequestWrapper, error) {
	if roomID == "" {
		return nil, errors.New("房间号不能为空")
	}

	rs.state.mu.Lock()
	entry := rs.state.rooms[roomID]
	if entry == nil {
		rs.createRoomLocked(roomID)
		entry = rs.state.rooms[roomID]
	}
	entry.hadPlayers = true
	rs.state.mu.Unlock()

	reqCh := entry.machine.GetReqCh()

	wrapper := game.RequestWrapper{
		Channel: game.CHANNEL_INIT,
		Native: &game.JoinRoomRequest{
			Name:   name,
			ImgURL: imgURL,
			RespCh: respCh,
		},
	}

	sendTimer := time.NewTimer(5 * time.Second)
	defer sendTimer.Stop()

	select {
	case reqCh <- wrapper:
		return reqCh, nil

	case <-sendTimer.C:
		zap.S().Warnf("房间 %s 无法及时处理加入请求，%s 发送失败", roomID, name)
		return nil, errors.New("加入房间失败")
	}
}

func (rs *RoomService) GetRoomStatus(roomID string) (game.RoomStatus, error) {
	rs.state.mu.RLock()
	entry := rs.state.rooms[roomID]
	rs.state.mu.RUnlock()

	if entry == nil {
		return game.RoomStatus{}, ErrRoomNotFound
	}

	return entry.machine.Status(), nil
}

// DeleteRoom 关闭房间协程，协程退出前会踢出所有在场玩家
func (rs *RoomService) DeleteRoom(roomID string) error {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	entry := rs.state.rooms[roomID]
	if entry == nil {
		return ErrRoomNotFound
	}

	close(entry.doneCh)
	delete(rs.state.rooms, roomID)

	zap.S().Infof("房间 %s 已删除", roomID)

	return nil
}

// KickPlayer 由管理端调用，向房间协程投递移除指令
func (rs *RoomService) KickPlayer(roomID, playerID, reason string) error {
	rs.state.mu.RLock()
	entry := rs.state.rooms[roomID]
	rs.state.mu.RUnlock()

	if entry == nil {
		return ErrRoomNotFound
	}

	wrapper := game.RequestWrapper{
		Channel: game.REQ_KICK_PLAYER,
		Native: &game.KickPlayerRequest{
			PlayerID: playerID,
			Reason:   reason,
		},
	}

	select {
	case entry.machine.GetReqCh() <- wrapper:
		return nil
	default:
		return errors.New("房间繁忙，请稍后再试")
	}
}

// Snapshot 聚合所有房间的只读快照，供管理端周期推送
func (rs *RoomService) Snapshot() []game.RoomStatus {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	statuses := make([]game.RoomStatus, 0, len(rs.state.rooms))
	for _, entry := range rs.state.rooms {
		statuses = append(statuses, entry.machine.Status())
	}

	return statuses
}

func (rs *RoomService) roomIDs() []string {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	ids := make([]string, 0, len(rs.state.rooms))
	for roomID := range rs.state.rooms {
		ids = append(ids, roomID)
	}

	return ids
}

// scheduleSweep 在一个小抖动后清扫指定房间，
// 由房间协程在玩家数变化时回调，不能在回调里同步拿锁
func (rs *RoomService) scheduleSweep(roomID string) {
	jitter := SWEEP_JITTER_MIN +
		time.Duration(rand.Int64N(int64(SWEEP_JITTER_MAX-SWEEP_JITTER_MIN)))

	time.AfterFunc(jitter, func() {
		rs.sweepRoom(roomID)
	})
}

// sweepRoom 根据快照决定房间去留：
// 空房删除（从未有人进过的新房享受保留窗口）；
// 对局中人数低于下限则强制终局；其余情况下让房间自行重估回合
func (rs *RoomService) sweepRoom(roomID string) {
	rs.state.mu.Lock()

	entry := rs.state.rooms[roomID]
	if entry == nil {
		rs.state.mu.Unlock()
		return
	}

	status := entry.machine.Status()

	if status.PlayerCount == 0 {
		// 曾有人加入过的房间空了就立即回收，保留窗口只适用于全新空房
		if !entry.hadPlayers && time.Since(entry.machine.CreatedAt()) < EMPTY_ROOM_GRACE {
			rs.state.mu.Unlock()
			return
		}

		close(entry.doneCh)
		delete(rs.state.rooms, roomID)
		rs.state.mu.Unlock()

		zap.S().Infof("房间 %s 已无玩家，清理完成", roomID)
		return
	}

	rs.state.mu.Unlock()

	if !status.IsPlaying {
		return
	}

	reqCh := entry.machine.GetReqCh()

	if status.PlayerCount < rs.policy.MinPlayerPerRoom {
		wrapper := game.RequestWrapper{
			Channel: game.REQ_END_GAME,
			Native:  &game.EndGameRequest{Reason: "玩家数量不足"},
		}

		select {
		case reqCh <- wrapper:
		default:
			zap.S().Warnf("房间 %s 请求通道已满，终局指令投递失败", roomID)
		}

		return
	}

	wrapper := game.RequestWrapper{
		Channel: game.REQ_RECHECK,
		Native:  &game.RecheckRequest{},
	}

	select {
	case reqCh <- wrapper:
	default:
	}
}
