package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/config"
	appHTTP "github.com/neljohncereradeveloper/ampc-hris-sub000/internal/handler/http"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/jwt"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/repository/postgresql"
	leaveService "github.com/neljohncereradeveloper/ampc-hris-sub000/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)

	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leavePolicyRepo := postgresql.NewLeavePolicyRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveTransactionRepo := postgresql.NewLeaveTransactionRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveYearRepo := postgresql.NewLeaveYearRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	activityLogRepo := postgresql.NewActivityLogRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	requestService := leaveService.NewRequestService(
		transactor,
		leaveTypeRepo,
		leavePolicyRepo,
		leaveBalanceRepo,
		leaveTransactionRepo,
		leaveRequestRepo,
		leaveYearRepo,
		holidayRepo,
		employeeRepo,
		activityLogRepo,
	)
	balanceService := leaveService.NewBalanceService(
		transactor,
		leavePolicyRepo,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveTransactionRepo,
		leaveYearRepo,
		employeeRepo,
		activityLogRepo,
	)
	yearService := leaveService.NewYearService(
		transactor,
		leavePolicyRepo,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveYearRepo,
		employeeRepo,
		activityLogRepo,
	)

	leaveHandler := appHTTP.NewLeaveHandler(requestService, balanceService, yearService)

	router := appHTTP.NewRouter(cfg, jwtService, leaveHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server starting on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}
