// @title Skill Extractor 后端 API
// @version 1.0
// @description 从项目源码中提取编程技能并通过测验评估熟练度的后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"os"

	"skill_extractor_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
