package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"draw-guess-be/internal/service/game"
	"draw-guess-be/internal/state"
)

// 连接上的首条消息必须是 INIT，携带目标房间号与玩家资料
type initRequest struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
	ImgURL string `json:"imgUrl"`
}

func JoinGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		clientIP := ctx.RemoteAddr()

		// 缓冲响应通道：房间协程向它非阻塞写入，写协程消费
		respCh := make(chan game.ResponseWrapper, RESP_CHAN_BUFFER_SIZE)

		// 读取首条 INIT 消息，拿到房间号与玩家资料
		_, msg, err := conn.ReadMessage()
		if err != nil {
			zap.L().Error(
				"读取首条消息失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			return
		}

		var wrapper game.RequestWrapper

		if err := json.Unmarshal(msg, &wrapper); err != nil || wrapper.Channel != game.CHANNEL_INIT {
			zap.L().Error(
				"首条消息不是 INIT",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)

			conn.WriteJSON(game.ResponseWrapper{
				Channel: game.CHANNEL_INIT,
				Error:   "首条消息必须是 INIT",
			})
			return
		}

		var initReq initRequest

		if err := json.Unmarshal(wrapper.Data, &initReq); err != nil {
			zap.L().Error(
				"解析 INIT 消息失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)

			conn.WriteJSON(game.ResponseWrapper{
				Channel: game.CHANNEL_INIT,
				Error:   "无效的 INIT 载荷",
			})
			return
		}

		// 投递加入请求并取得房间的请求通道
		reqCh, err := appState.RoomSvc.JoinRoom(
			initReq.RoomID,
			initReq.Name,
			initReq.ImgURL,
			respCh,
		)
		if err != nil {
			zap.L().Warn(
				"加入房间失败",
				zap.String("client_ip", clientIP),
				zap.String("room_id", initReq.RoomID),
				zap.Error(err),
			)

			conn.WriteJSON(game.WrapErrResponse(game.CHANNEL_INIT, err))
			return
		}

		// 等待 INIT 响应，从中提取玩家 ID
		var playerID string

		select {
		case initResp := <-respCh:
			if initResp.Error != nil {
				conn.WriteJSON(initResp)
				return
			}

			if initResp.Channel == game.CHANNEL_INIT {
				if respData, ok := initResp.Data.(game.InitResponse); ok {
					playerID = respData.PlayerID
				}

				// 将响应放回通道供写协程发送
				select {
				case respCh <- initResp:
				default:
					zap.L().Warn("无法回放 INIT 响应")
				}
			}

		case <-time.After(3 * time.Second):
			zap.L().Error("等待 INIT 响应超时", zap.String("client_ip", clientIP))
			return
		}

		if playerID == "" {
			zap.L().Error("未能获取玩家ID", zap.String("client_ip", clientIP))
			return
		}

		zap.L().Info(
			"玩家成功加入房间",
			zap.String("client_ip", clientIP),
			zap.String("room_id", initReq.RoomID),
			zap.String("player_id", playerID),
			zap.String("player_name", initReq.Name),
		)

		connectionCount.Add(1)
		defer connectionCount.Add(-1)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		go writePump(conn, respCh, writeDoneCh, clientIP)

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Debug(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				respCh <- game.ResponseWrapper{
					Channel: game.CHANNEL_PING,
					Error:   "无效的请求格式",
				}

				continue
			}

			// 应用层心跳直接回应，不经过房间协程
			if wrapper.Channel == game.CHANNEL_PING {
				respCh <- game.WrapResponse(game.CHANNEL_PONG, nil)
				continue
			}

			// 连接已绑定玩家，重复 INIT 视为协议错误
			if wrapper.Channel == game.CHANNEL_INIT {
				respCh <- game.ResponseWrapper{
					Channel: game.CHANNEL_INIT,
					Error:   "连接已初始化",
				}
				continue
			}

			// 作者身份由服务器绑定，客户端载荷无法伪造
			wrapper.AuthorID = playerID
			wrapper.Native = nil

			select {
			case reqCh <- wrapper:

			default:
				zap.L().Error(
					"发送请求到房间协程失败：请求通道已满",
					zap.String("client_ip", clientIP),
				)

				respCh <- game.ResponseWrapper{
					Channel: wrapper.Channel,
					Error:   "房间繁忙，请稍后再试",
				}
			}
		}

		// 读循环退出即客户端断开，向房间协程投递退出请求；
		// RespCh 一并带上，房间协程据此识别过期连接
		zap.L().Info(
			"客户端连接断开，发送退出请求",
			zap.String("client_ip", clientIP),
			zap.String("player_id", playerID),
		)

		exitWrapper := game.RequestWrapper{
			Channel: game.REQ_EXIT,
			Native: &game.ExitRequest{
				PlayerID: playerID,
				RespCh:   respCh,
			},
		}

		select {
		case reqCh <- exitWrapper:

		default:
			zap.L().Warn(
				"发送退出请求失败：请求通道已满",
				zap.String("player_id", playerID),
			)
		}
	}
}

func writePump(
	conn *websocket.Conn,
	respCh <-chan game.ResponseWrapper,
	writeDoneCh <-chan struct{},
	clientIP string,
) {
	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-writeDoneCh:
			zap.L().Debug(
				"WebSocket写入协程退出",
				zap.String("client_ip", clientIP),
			)
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Error(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

		case resp := <-respCh:
			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Error(
					"发送消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

			// 踢出通知送达后由连接层关闭底层连接，读循环随之退出；
			// 房间协程不关闭响应通道，避免读循环写入已关闭的通道
			if resp.Channel == game.CHANNEL_KICK {
				zap.L().Info(
					"玩家已被移出房间，关闭连接",
					zap.String("client_ip", clientIP),
				)

				conn.Close()
				return
			}
		}
	}
}
