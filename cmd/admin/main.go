package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"hireForm/internal/auth"
)

func main() {
	var (
		length = flag.Int("length", 24, "随机口令字节数")
		stdin  = flag.Bool("stdin", false, "从标准输入读取口令，不随机生成")
		check  = flag.String("check", "", "校验标准输入中的口令是否匹配该 bcrypt 哈希")
	)
	flag.Parse()

	if hash := strings.TrimSpace(*check); hash != "" {
		password, err := readPassword()
		if err != nil {
			log.Fatalf("read password: %v", err)
		}
		if !auth.CheckPasswordHash(password, hash) {
			fmt.Println("口令与哈希不匹配")
			os.Exit(1)
		}
		fmt.Println("口令与哈希匹配")
		return
	}

	var (
		password string
		err      error
	)
	if *stdin {
		password, err = readPassword()
	} else {
		password, err = generateRandomPassword(*length)
	}
	if err != nil {
		log.Fatalf("prepare password: %v", err)
	}
	if password == "" {
		log.Fatal("password must not be empty")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	fmt.Printf("将以下配置写入 .env（口令仅显示一次）：\n")
	if !*stdin {
		fmt.Printf("ADMIN_PASSWORD=%s\n", password)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hashed)
	fmt.Printf("提示：配置 ADMIN_PASSWORD_HASH 后可不再保存明文 ADMIN_PASSWORD。\n")
}

func readPassword() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
