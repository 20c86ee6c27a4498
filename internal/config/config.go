package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	LogLevel   string `mapstructure:"log_level"`
	FrontDir   string `mapstructure:"front_dir"`
	AdminToken string `mapstructure:"admin_token"`

	Room RoomPolicyConfig `mapstructure:"room"`
}

// 房间策略配置，约束房间可配置项的取值范围和计分规则
type RoomPolicyConfig struct {
	MinPlayerPerRoom     int    `mapstructure:"min_player_per_room"`
	MaxPlayerPerRoom     int    `mapstructure:"max_player_per_room"`
	MinTimeByTurn        int    `mapstructure:"min_time_by_turn"`
	MaxTimeByTurn        int    `mapstructure:"max_time_by_turn"`
	MinCycleRoundByGame  int    `mapstructure:"min_cycle_round_by_game"`
	MaxCycleRoundByGame  int    `mapstructure:"max_cycle_round_by_game"`
	MinPointGuess        int    `mapstructure:"min_point_guess"`
	MaxPointGuess        int    `mapstructure:"max_point_guess"`
	MaxChatMessageLength int    `mapstructure:"max_chat_message_length"`
	WordListDir          string `mapstructure:"word_list_dir"`
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	v := viper.New()

	v.SetConfigFile("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	setRoomDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	return &config
}

func setRoomDefaults(v *viper.Viper) {
	v.SetDefault("room.min_player_per_room", 2)
	v.SetDefault("room.max_player_per_room", 16)
	v.SetDefault("room.min_time_by_turn", 30)
	v.SetDefault("room.max_time_by_turn", 300)
	v.SetDefault("room.min_cycle_round_by_game", 1)
	v.SetDefault("room.max_cycle_round_by_game", 10)
	v.SetDefault("room.min_point_guess", 500)
	v.SetDefault("room.max_point_guess", 1000)
	v.SetDefault("room.max_chat_message_length", 240)
	v.SetDefault("room.word_list_dir", "./wordlist")
}
