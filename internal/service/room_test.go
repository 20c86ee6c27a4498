package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draw-guess-be/internal/config"
	"draw-guess-be/internal/service/game"
)

func testPolicy() *config.RoomPolicyConfig {
	return &config.RoomPolicyConfig{
		MinPlayerPerRoom:     2,
		MaxPlayerPerRoom:     16,
		MinTimeByTurn:        30,
		MaxTimeByTurn:        300,
		MinCycleRoundByGame:  1,
		MaxCycleRoundByGame:  10,
		MinPointGuess:        500,
		MaxPointGuess:        1000,
		MaxChatMessageLength: 240,
	}
}

func TestRoomService_CreateRoomGeneratesUniqueIDs(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	seen := make(map[string]struct{})

	for range 20 {
		roomID, err := rs.CreateRoom()
		require.NoError(t, err)
		assert.Len(t, roomID, 8)

		_, dup := seen[roomID]
		assert.False(t, dup, "房间号不应重复")
		seen[roomID] = struct{}{}

		status, err := rs.GetRoomStatus(roomID)
		require.NoError(t, err)
		assert.Equal(t, roomID, status.RoomID)
	}
}

func TestRoomService_CreateRoomWithID(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	require.NoError(t, rs.CreateRoomWithID("lounge01"))

	err := rs.CreateRoomWithID("lounge01")
	assert.ErrorIs(t, err, ErrRoomDuplicate)

	assert.Error(t, rs.CreateRoomWithID(""))
}

func TestRoomService_GetRoomStatus_NotFound(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	_, err := rs.GetRoomStatus("missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomService_DeleteRoom(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	require.NoError(t, rs.CreateRoomWithID("lounge01"))
	require.NoError(t, rs.DeleteRoom("lounge01"))

	_, err := rs.GetRoomStatus("lounge01")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	assert.ErrorIs(t, rs.DeleteRoom("lounge01"), ErrRoomNotFound)
}

func TestRoomService_JoinRoomDeliversInit(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	require.NoError(t, rs.CreateRoomWithID("lounge01"))

	respCh := make(chan game.ResponseWrapper, 64)

	reqCh, err := rs.JoinRoom("lounge01", "Alice", "", respCh)
	require.NoError(t, err)
	require.NotNil(t, reqCh)

	select {
	case resp := <-respCh:
		require.Equal(t, game.CHANNEL_INIT, resp.Channel)

		initData, ok := resp.Data.(game.InitResponse)
		require.True(t, ok, "INIT 响应载荷类型不符：%+v", resp.Data)
		assert.NotEmpty(t, initData.PlayerID)

	case <-time.After(3 * time.Second):
		t.Fatalf("等待 INIT 响应超时")
	}

	// 快照在房间协程处理完请求后发布，轮询等它刷新
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		status, err := rs.GetRoomStatus("lounge01")
		require.NoError(t, err)

		if status.PlayerCount == 1 {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("房间快照未反映加入的玩家")
}

func TestRoomService_JoinRoom_CreatesMissingRoom(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	respCh := make(chan game.ResponseWrapper, 64)

	// 目标房间不存在时按该房间号现场创建
	reqCh, err := rs.JoinRoom("fresh001", "Alice", "", respCh)
	require.NoError(t, err)
	require.NotNil(t, reqCh)

	_, err = rs.GetRoomStatus("fresh001")
	assert.NoError(t, err)

	// 空房间号仍然拒绝
	_, err = rs.JoinRoom("", "Alice", "", respCh)
	assert.Error(t, err)
}

func TestRoomService_EmptiedRoomReclaimedWithoutGrace(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	respCh := make(chan game.ResponseWrapper, 64)

	reqCh, err := rs.JoinRoom("lounge01", "Alice", "", respCh)
	require.NoError(t, err)

	var playerID string

	select {
	case resp := <-respCh:
		initData, ok := resp.Data.(game.InitResponse)
		require.True(t, ok)
		playerID = initData.PlayerID

	case <-time.After(3 * time.Second):
		t.Fatalf("等待 INIT 响应超时")
	}

	// 唯一玩家离开后，曾有人进过的房间应立即回收，不等保留窗口
	reqCh <- game.RequestWrapper{
		Channel: game.REQ_EXIT,
		Native:  &game.ExitRequest{PlayerID: playerID, RespCh: respCh},
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := rs.GetRoomStatus("lounge01"); err != nil {
			require.ErrorIs(t, err, ErrRoomNotFound)
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("空置房间未被及时回收")
}

func TestRoomService_Snapshot(t *testing.T) {
	rs := NewRoomService(testPolicy())
	defer rs.Close()

	require.NoError(t, rs.CreateRoomWithID("lounge01"))
	require.NoError(t, rs.CreateRoomWithID("lounge02"))

	// 快照是从各房间发布的副本聚合来的，稍等发布完成
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(rs.Snapshot()) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	rooms := rs.Snapshot()
	require.Len(t, rooms, 2)

	ids := []string{rooms[0].RoomID, rooms[1].RoomID}
	assert.ElementsMatch(t, []string{"lounge01", "lounge02"}, ids)
}
